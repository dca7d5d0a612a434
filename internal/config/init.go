package config

import (
	"encoding/json"
	"os"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		TemplateDir:      "templates",
		OutputDir:        "dist",
		MediaDir:         "img",
		DataEndpoint:     "https://script.google.com/macros/s/DEPLOYMENT/exec",
		DataAuthToken:    "${BITACORA_DATA_TOKEN}",
		CommentsEndpoint: "https://script.google.com/macros/s/COMMENTS/exec",
		RedirectFile:     "dist/redirects.nginx",
		ItemsPerPage:     5,
		StaticDirs:       []string{"js", "img", "css"},
		Logging:          LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Serve:            ServeConfig{Addr: ":8080"},
	}
}

// Init writes an example configuration to path. An existing file is kept
// unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists: " + path + " (use --force to overwrite)").
			WithContext("path", path).Build()
	}
	data, err := json.MarshalIndent(Example(), "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example config").Build()
	}
	// #nosec G306 -- the config holds no secrets; the token is an env reference
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write config file").
			WithContext("path", path).Build()
	}
	return nil
}
