package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjaus/multihead"
)

// formatsCommand lists the output formats render accepts.
func (c *CLI) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range multihead.Formats() {
				fmt.Fprintln(c.out, f)
			}
			fmt.Fprintln(c.out, "go-template=<template>")
			printDetail(c.out, "write to a .xlsx file with --output for an Excel workbook")
			return nil
		},
	}
}
