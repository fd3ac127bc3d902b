package providers

// ProviderParams holds the construction-time configuration shared by all
// model clients. Everything the client needs is fixed here; nothing is
// read from ambient state after construction.
type ProviderParams struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

type ProviderOption func(*ProviderParams)

func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		p.BaseURL = baseURL
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		p.APIKey = apiKey
	}
}

func WithModel(model string) ProviderOption {
	return func(p *ProviderParams) {
		p.Model = model
	}
}

func WithTemperature(temperature float64) ProviderOption {
	return func(p *ProviderParams) {
		p.Temperature = temperature
	}
}
