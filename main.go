/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/khalfanathman/portfolio-api/cmd"

func main() {
	cmd.Execute()
}
