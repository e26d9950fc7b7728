package main

import "linkedin-scraper/cmd"

func main() {
	cmd.Execute()
}
