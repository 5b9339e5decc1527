package params

type WebDaemonConfig struct {
	ListenerConfig
	DataDir   string
	Inference *InferenceConfig

	// Token, if set, must be sent with requests that run inference,
	// either in the AuthorizationOfCats header or as the api_token query param.
	Token string `json:"-"`

	// Geocode decorates inferences with an offline reverse-geocoded address.
	Geocode bool
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir:        DefaultDatadirRoot,
		ListenerConfig: DefaultWebListenerConfig(),
		Inference:      DefaultInferenceConfig(),
		Geocode:        true,
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir: "",
		ListenerConfig: ListenerConfig{
			Network: "tcp",
			Address: "localhost:3333",
		},
		Inference: DefaultTestInferenceConfig(),
	}
}
