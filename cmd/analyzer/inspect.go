package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kbukum/startup-analyzer/sheet"
)

func newInspectCmd() *cobra.Command {
	var (
		file    string
		limit   int
		payload bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the records loaded from a workbook",
		Long:  "Loads a workbook the same way the analysis does and prints the records, so parsing can be checked before spending API calls.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			table, err := sheet.LoadFile(file)
			if err != nil {
				return err
			}
			if payload {
				data, err := table.JSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
				return err
			}
			printTable(cmd.OutOrStdout(), table, limit)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Excel workbook to load")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n records (0 prints all)")
	cmd.Flags().BoolVar(&payload, "json", false, "print the JSON payload sent to the model instead of a table")
	return cmd
}

func printTable(w io.Writer, t *sheet.Table, limit int) {
	fmt.Fprintf(w, "Sheet %q: %d records, %d columns\n", t.Sheet, t.Len(), len(t.Columns))
	if len(t.Columns) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for i, r := range t.Records {
		if limit > 0 && i >= limit {
			break
		}
		table.Append(r.Strings())
	}
	table.Render()

	if limit > 0 && t.Len() > limit {
		fmt.Fprintf(w, "... %d more\n", t.Len()-limit)
	}
}
