// Reaper - Idle Cloud Resource Sweeper
// Find it. Age it. Delete it.
package main

func main() {
	Execute()
}
