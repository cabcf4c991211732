package config

import (
	"time"

	"github.com/matzehuels/discograph/pkg/integrations"
	"github.com/matzehuels/discograph/pkg/integrations/discogs"
	"github.com/matzehuels/discograph/pkg/layout"
	"github.com/matzehuels/discograph/pkg/session"
)

const (
	defaultAddr            = "127.0.0.1:8080"
	defaultCleanupInterval = time.Minute
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            defaultAddr,
			SessionTTL:      Duration{session.DefaultTTL},
			CleanupInterval: Duration{defaultCleanupInterval},
			CORSOrigins:     []string{"*"},
		},
		Discogs: Discogs{
			BaseURL: discogs.DefaultBaseURL,
			Timeout: Duration{integrations.DefaultTimeout},
		},
		Layout: Layout{
			Width:         layout.DefaultWidth,
			Height:        layout.DefaultHeight,
			LinkDistance:  layout.DefaultLinkDistance,
			Charge:        layout.DefaultCharge,
			CollideRadius: layout.DefaultCollideRadius,
			FrameInterval: Duration{layout.DefaultFrameInterval},
		},
	}
}
