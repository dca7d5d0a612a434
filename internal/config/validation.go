package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags and the cross-field rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "configuration validation failed: "+describe(err)).
			Fatal().WithRetry(ferrors.RetryUserAction).Build()
	}
	if _, err := cfg.Serve.RebuildInterval(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "configuration validation failed: "+err.Error()).
			Fatal().WithRetry(ferrors.RetryUserAction).Build()
	}
	return nil
}

// describe renders validator failures using the config keys users write.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", keyFor(fe.Namespace()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

var keys = map[string]string{
	"TemplateDir":      "TEMPLATE_DIR",
	"OutputDir":        "OUTPUT_DIR",
	"MediaDir":         "MEDIA_DIR",
	"DataEndpoint":     "DATA_ENDPOINT",
	"DataAuthToken":    "DATA_AUTH_TOKEN",
	"CommentsEndpoint": "COMMENTS_ENDPOINT",
	"RedirectFile":     "OUTPUT_REDIRECT_FILE",
	"ItemsPerPage":     "ITEMS_PER_PAGE",
	"StaticDirs":       "STATIC_DIRS",
	"Notify":           "NOTIFY",
	"NATSURL":          "NATS_URL",
	"Subject":          "SUBJECT",
	"Serve":            "SERVE",
	"Addr":             "ADDR",
}

// keyFor maps "Config.Notify.NATSURL" to "NOTIFY.NATS_URL".
func keyFor(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	for i, s := range segments {
		name, index, _ := strings.Cut(s, "[")
		if k, ok := keys[name]; ok {
			name = k
		}
		if index != "" {
			name += "[" + index
		}
		segments[i] = name
	}
	return strings.Join(segments, ".")
}
