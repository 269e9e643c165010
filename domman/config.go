package domman

import (
	"io"
	"time"

	"github.com/chrisuehlinger/domman/network"
	"github.com/sirupsen/logrus"
)

// Config holds the settings fixed when a DomMan is created.
type Config struct {
	// Debug enables diagnostic warnings for ignored input, missing
	// capabilities and unknown member names.
	Debug bool
	// Origin keys localStorage when the document URL has no origin.
	Origin string
	// UserAgent is sent with ajax requests.
	UserAgent string
	// HTTPTimeout bounds each ajax request.
	HTTPTimeout time.Duration
	// MaxRedirects caps the redirects an ajax request follows. Zero
	// disables following; the redirect response itself is returned.
	MaxRedirects int
	// HTTPCacheSize is the number of GET responses kept for reuse while
	// fresh. Zero disables the cache.
	HTTPCacheSize int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Origin:        "null",
		UserAgent:     "domman/1.0",
		HTTPTimeout:   30 * time.Second,
		MaxRedirects:  10,
		HTTPCacheSize: 100,
	}
}

// ClientOptions returns the network client settings c describes.
func (c Config) ClientOptions(log logrus.FieldLogger) []network.ClientOption {
	opts := []network.ClientOption{
		network.WithTimeout(c.HTTPTimeout),
		network.WithUserAgent(c.UserAgent),
		network.WithLogger(log),
	}
	if c.MaxRedirects > 0 {
		opts = append(opts, network.WithMaxRedirects(c.MaxRedirects))
	} else {
		opts = append(opts, network.WithFollowRedirect(false))
	}
	if c.HTTPCacheSize > 0 {
		opts = append(opts, network.WithCache(network.NewCache(c.HTTPCacheSize)))
	}
	return opts
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.PanicLevel
	return l
}()

// diag returns the logger diagnostics go to: the configured logger in
// debug mode, a silent one otherwise.
func (d *DomMan) diag() logrus.FieldLogger {
	if d.cfg.Debug {
		return d.log
	}
	return discard
}

func (d *DomMan) debugWarn(method, format string, args ...any) {
	d.diag().WithField("method", method).Warnf(format, args...)
}

func (d *DomMan) debugError(method string, err error, msg string) {
	entry := d.diag().WithField("method", method)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}
