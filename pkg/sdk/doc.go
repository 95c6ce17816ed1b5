// Package minutesmind embeds the meeting-notes pipeline in a Go program:
// ingest a directory of .txt/.md notes, search them semantically and
// extract decisions, action items and risks.
//
//	client, _ := minutesmind.New(ctx,
//	    minutesmind.WithBadger("./data/notes"),
//	    minutesmind.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	report, _ := client.Ingest(ctx, "./meetings", false)
//	hits, _ := client.Search(ctx, "launch decisions", 5)
//
// Redis 8+ and Valkey are supported with WithRedis and WithValkey. Extract
// requires WithExtractor.
package minutesmind
