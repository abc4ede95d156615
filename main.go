package main

import "github.com/nikogura/ats-match/cmd"

func main() {
	cmd.Execute()
}
