package config

// ConfigInitError reports a config that exists but is not usable yet.
type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	return e.msg
}
