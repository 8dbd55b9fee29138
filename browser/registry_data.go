package browser

// DefaultRegistry returns the built-in catalogue of the browsers the
// pipeline knows how to emit realistic, ordered headers for. Kept as
// compile-time constants rather than loaded data: this presentation
// metadata changes only when a new browser family is added to the
// pipeline's supported set, unlike the sampled Bayesian model itself.
func DefaultRegistry() *Registry {
	return NewRegistry([]Entry{
		{
			Name: "chrome",
			HeaderOrder: []string{
				"Host",
				"Connection",
				"sec-ch-ua",
				"sec-ch-ua-mobile",
				"sec-ch-ua-platform",
				"Upgrade-Insecure-Requests",
				"User-Agent",
				"Accept",
				"Sec-Fetch-Site",
				"Sec-Fetch-Mode",
				"Sec-Fetch-User",
				"Sec-Fetch-Dest",
				"Accept-Encoding",
				"Accept-Language",
			},
			SecFetch:      true,
			SecFetchSince: MustParseDottedVersion("76"),
			PascalExceptions: map[string]string{
				"dnt": "DNT",
				"rtt": "RTT",
				"ect": "ECT",
			},
		},
		{
			Name: "edge",
			HeaderOrder: []string{
				"Host",
				"Connection",
				"sec-ch-ua",
				"sec-ch-ua-mobile",
				"sec-ch-ua-platform",
				"Upgrade-Insecure-Requests",
				"User-Agent",
				"Accept",
				"Sec-Fetch-Site",
				"Sec-Fetch-Mode",
				"Sec-Fetch-User",
				"Sec-Fetch-Dest",
				"Accept-Encoding",
				"Accept-Language",
			},
			SecFetch:      true,
			SecFetchSince: MustParseDottedVersion("79"),
			PascalExceptions: map[string]string{
				"dnt": "DNT",
				"rtt": "RTT",
				"ect": "ECT",
			},
		},
		{
			Name: "firefox",
			HeaderOrder: []string{
				"Host",
				"User-Agent",
				"Accept",
				"Accept-Language",
				"Accept-Encoding",
				"Connection",
				"Upgrade-Insecure-Requests",
				"Sec-Fetch-Dest",
				"Sec-Fetch-Mode",
				"Sec-Fetch-Site",
				"Sec-Fetch-User",
			},
			SecFetch:      true,
			SecFetchSince: MustParseDottedVersion("90"),
			PascalExceptions: map[string]string{
				"dnt": "DNT",
			},
		},
		{
			Name: "safari",
			HeaderOrder: []string{
				"Host",
				"Accept",
				"User-Agent",
				"Accept-Language",
				"Accept-Encoding",
				"Connection",
			},
			// Safari has never shipped the Sec-Fetch-* block.
			SecFetch:         false,
			PascalExceptions: map[string]string{},
		},
	})
}
