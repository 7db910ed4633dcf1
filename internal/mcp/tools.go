package mcp

// intOrDigitString is a schema fragment accepting a JSON integer or a
// digit string. LLM-driven clients send numeric arguments both ways.
func intOrDigitString(description string, defaultValue int) map[string]any {
	return map[string]any{
		"anyOf": []map[string]any{
			{"type": "integer"},
			{"type": "string", "pattern": "^[0-9]+$"},
		},
		"description": description,
		"default":     defaultValue,
	}
}

// getAllTools returns all available MCP tools.
func getAllTools() []Tool {
	return []Tool{
		searchIncidentsTool(),
		webSearchTool(),
	}
}

func searchIncidentsTool() Tool {
	return Tool{
		Name: "search_wazuh_incidents",
		Description: "Search Wazuh security incidents from OpenSearch for the last N days with aggregated statistics. " +
			"Returns incident data, aggregations by severity level, region, incident type (groups), server (agent), and decoder, plus timeline data.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"days":            intOrDigitString("Number of days to query (default: 7)", 7),
				"max_sample_size": intOrDigitString("Maximum number of sample incidents for detailed analysis (default: 1000)", 1000),
				"query_type": map[string]any{
					"type":        "string",
					"description": "Type of query: 'all' (with aggregations), 'sample' (just documents)",
					"enum":        []string{"all", "sample"},
					"default":     "all",
				},
			},
		},
	}
}

func webSearchTool() Tool {
	return Tool{
		Name:        "web_search",
		Description: "Search the web for information using DuckDuckGo. Returns search results with titles, URLs, and snippets.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
				"max_results": intOrDigitString("Number of results to return (1-20, default: 5)", 5),
				"region": map[string]any{
					"type":        "string",
					"description": "Region code for search (e.g., 'us-en', 'uk-en', 'wt-wt' for worldwide)",
					"default":     "wt-wt",
				},
			},
			"required": []string{"query"},
		},
	}
}
