// Package sheet loads spreadsheet uploads into ordered records and
// serializes them as the JSON payload embedded in prompts.
//
//	table, err := sheet.Load(upload)
//	payload, err := table.JSON()
//	// [{"Company":"Aleph Alpha","Funding":500000000,"City":"Heidelberg"}, ...]
//
// Column order follows the header row and record order follows the sheet,
// so the same workbook always yields byte-identical JSON.
package sheet
