// Package analysis wires the three-stage startup ecosystem analysis:
// spreadsheet records are serialized into the processing prompt, a market
// analyst stage answers the selected query, and an insight stage produces
// recommendations. The replies become the three sections of a Report.
//
//	svc := analysis.NewService(analysis.LLMCompleters(cfg.LLM, log), log)
//	report, err := svc.Analyze(ctx, analysis.Input{
//		Upload:     file,
//		Credential: security.NewCredential(key),
//		Query:      analysis.Query{Type: analysis.FundingPatterns},
//	})
package analysis
