package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/mem"
)

var classesLargest int

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Print the size-class tables of the predefined pool configurations",
	RunE:  runClasses,
}

func init() {
	classesCmd.Flags().IntVar(&classesLargest, "largest", 4096,
		"Largest required pool block to build the tables for")
	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, args []string) error {
	configs := []mem.SizeClassConfig{
		mem.ConfigFineGrained,
		mem.ConfigBalanced,
		mem.ConfigCoarse,
	}

	if jsonOut {
		out := make(map[string][]int, len(configs))
		for _, c := range configs {
			out[c.Name] = c.Classes(classesLargest)
		}
		return printJSON(out)
	}

	for _, c := range configs {
		sizes := c.Classes(classesLargest)
		fmt.Fprintf(os.Stdout, "%s: %d classes, largest block %s\n",
			c.Name, len(sizes), humanize.IBytes(uint64(sizes[len(sizes)-1])))
		for i, bs := range sizes {
			fmt.Fprintf(os.Stdout, "  class %2d: up to %d bytes\n", i, bs)
		}
	}
	return nil
}
