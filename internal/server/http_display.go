package server

import "fmt"

// displayServerInfo prints the startup banner: routes, auth, and limit
// configuration. Plain stdout on purpose so it reads well in a terminal
// next to the JSON logs.
func (s *Server) displayServerInfo() {
	fmt.Println("Available endpoints:")
	for _, ep := range []struct {
		method, path, desc string
	}{
		{"GET ", "/health ", "Health check"},
		{"GET ", "/stats  ", "Server statistics"},
		{"POST", "/analyze", "Full resume analysis (requires API key)"},
		{"POST", "/focus  ", "Focused resume analysis (requires API key)"},
		{"POST", "/careers", "Career path suggestions (requires API key)"},
		{"POST", "/ats    ", "ATS optimization (requires API key)"},
	} {
		fmt.Printf("  %s %s - %s\n", ep.method, ep.path, ep.desc)
	}

	if count := s.apiKeyCount(); count > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", count)
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to analysis endpoints")
		if s.APIKeysFile != "" {
			fmt.Printf("API keys file: %s (watched for changes)\n", s.APIKeysFile)
		}
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}

	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n",
			s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}

	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
