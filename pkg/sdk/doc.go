// Package reviewrank is an embeddable Go client for review relevance search
// backed by Redis or Valkey.
//
// The client runs the ranking pipeline in-process: candidates are loaded from
// storage, scored against the keyword with the chosen method, globally sorted
// and then paginated.
//
//	client, _ := reviewrank.New(ctx, reviewrank.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_, _ = client.Reviews().Upsert(ctx, reviews)
//	page, _ := client.Search(ctx, reviewrank.SearchQuery{
//	    Keyword: "shooter",
//	    Method:  reviewrank.MethodJaccard,
//	})
//
// Rank scores an in-memory slice without touching storage:
//
//	ranked := reviewrank.Rank(ctx, "great shooter", reviews, reviewrank.MethodTFIDF)
package reviewrank
