// Package tokens estimates prompt sizes and trims text to a token budget.
//
// Estimation uses the rule of thumb that about 4 characters make one token.
// It needs no model-specific tokenizer, which is enough to keep prompts and
// quoted command output within a rough budget.
//
//	n := tokens.Estimate(prompt)
//	short, cut := tokens.NewTruncator(tokens.FromMiddle).Truncate(output, 2000)
package tokens
