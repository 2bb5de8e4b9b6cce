package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/kestrelops/liaison"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", app.Name, app.Version)
	},
}
