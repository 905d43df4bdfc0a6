// Package windrose provides an embeddable federated search client: one
// query fans out to several privacy-respecting engines, results come back
// deduplicated, fused and ranked.
//
//	client, _ := windrose.New(
//	    windrose.WithDuckDuckGo(windrose.EngineSettings{Priority: 1}),
//	    windrose.WithMojeek(os.Getenv("WINDROSE_MOJEEK_API_KEY"), windrose.EngineSettings{Priority: 2}),
//	    windrose.WithSearXNG([]string{"https://searx.be"}, windrose.EngineSettings{FallbackOnly: true}),
//	)
//	resp, _ := client.Search(ctx, windrose.Query{Text: "indie web search"})
//	for _, r := range resp.Results {
//	    fmt.Println(r.Score, r.URL)
//	}
//
// Engine failures never fail the search: the response carries per-engine
// telemetry and a Partial flag instead.
package windrose
