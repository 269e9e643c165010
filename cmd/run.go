package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chrisuehlinger/domman/dom"
	"github.com/chrisuehlinger/domman/domman"
	"github.com/chrisuehlinger/domman/eventloop"
	"github.com/chrisuehlinger/domman/js"
	"github.com/chrisuehlinger/domman/network"
	"github.com/chrisuehlinger/domman/observe"
	"github.com/chrisuehlinger/domman/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const defaultHTTPTimeout = 30 * time.Second

type runOptions struct {
	HTML     string
	URL      string
	Scripts  []string
	Events   []eventSpec
	Cookies  []string
	Storage  string
	Timeout  time.Duration
	Viewport dom.DOMRect
	Config   domman.Config
}

// eventSpec is an event dispatched after the scripts ran, given on the
// command line as selector:type.
type eventSpec struct {
	Selector string
	Type     string
}

func parseEventSpec(s string) (eventSpec, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return eventSpec{}, errors.Errorf("event %q: want selector:type", s)
	}
	return eventSpec{Selector: s[:i], Type: s[i+1:]}, nil
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	var (
		events []string
		opts   runOptions
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a page, run scripts against it and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range events {
				spec, err := parseEventSpec(e)
				if err != nil {
					return err
				}
				opts.Events = append(opts.Events, spec)
			}
			opts.Config = domman.Config{
				Debug:         v.GetBool("debug"),
				Origin:        v.GetString("origin"),
				UserAgent:     v.GetString("user-agent"),
				HTTPTimeout:   v.GetDuration("http-timeout"),
				MaxRedirects:  v.GetInt("max-redirects"),
				HTTPCacheSize: v.GetInt("http-cache"),
			}
			log, err := newLogger(v)
			if err != nil {
				return err
			}
			return runPage(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.HTML, "html", "", "page to load: a path, file:, data: or http(s) URL")
	f.StringVar(&opts.URL, "url", "", "document URL, which sets the localStorage origin")
	f.StringArrayVarP(&opts.Scripts, "script", "s", nil, "script to run, as a path or URL; scripts run in order (repeatable)")
	f.StringArrayVarP(&events, "event", "e", nil, "event to dispatch after the scripts, as selector:type (repeatable)")
	f.StringArrayVar(&opts.Cookies, "cookie", nil, "cookies sent to the page's site, as name=value[; name=value] (repeatable)")
	f.StringVar(&opts.Storage, "storage", "", "file persisting localStorage between runs")
	f.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "how long pending timers may keep the page running")
	f.Float64Var(&opts.Viewport.Width, "width", 1024, "viewport width for visibility observers")
	f.Float64Var(&opts.Viewport.Height, "height", 768, "viewport height for visibility observers")
	_ = cmd.MarkFlagRequired("html")
	return cmd
}

// seedCookies stores the --cookie values for the site of the document URL,
// or of the page when it is fetched over HTTP.
func seedCookies(client *network.Client, opts runOptions, log logrus.FieldLogger) error {
	if len(opts.Cookies) == 0 {
		return nil
	}
	site := opts.URL
	if site == "" {
		site = opts.HTML
	}
	u, err := url.Parse(site)
	if err != nil || !network.IsAbsoluteURL(site) || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("--cookie needs an http(s) --url or --html")
	}
	var cookies []*http.Cookie
	for _, line := range opts.Cookies {
		parsed, err := http.ParseCookie(line)
		if err != nil {
			return errors.Wrapf(err, "cookie %q", line)
		}
		cookies = append(cookies, parsed...)
	}
	client.SetCookies(u, cookies)
	log.WithFields(logrus.Fields{"site": u.Host, "cookies": len(client.Cookies(u))}).Debug("domman: cookies seeded")
	return nil
}

// loadScripts fetches every script concurrently. The results keep the
// order of refs, which is the order they run in.
func loadScripts(ctx context.Context, loader *network.Loader, refs []string) ([]*network.Resource, error) {
	scripts := make([]*network.Resource, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			res, err := loader.Load(gctx, ref)
			if err != nil {
				return errors.Wrap(err, "load script")
			}
			scripts[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scripts, nil
}

// runPage parses the page, runs each script and event, drains the event
// loop and writes the document's HTML to out. Console output goes to
// console.
func runPage(ctx context.Context, opts runOptions, out, console io.Writer, log logrus.FieldLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := network.NewClient(opts.Config.ClientOptions(log)...)
	if err != nil {
		return err
	}
	if err := seedCookies(client, opts, log); err != nil {
		return err
	}
	loader := network.NewLoader(client)

	page, err := loader.Load(ctx, opts.HTML)
	if err != nil {
		return errors.Wrap(err, "load page")
	}
	if !network.IsHTMLContentType(page.ContentType) {
		log.WithField("contentType", page.ContentType).Warn("domman: page is not HTML, parsing it anyway")
	}
	doc, err := dom.ParseHTMLString(string(page.Content))
	if err != nil {
		return errors.Wrapf(err, "parse %s", opts.HTML)
	}
	switch {
	case opts.URL != "":
		doc.SetURL(opts.URL)
	case page.URL != "":
		doc.SetURL(page.URL)
	}
	scripts, err := loadScripts(ctx, loader, opts.Scripts)
	if err != nil {
		return err
	}

	store, err := storage.NewManager(storage.WithFile(opts.Storage))
	if err != nil {
		return err
	}
	loop := eventloop.New(eventloop.WithLogger(log))
	viewport := opts.Viewport
	host := observe.NewHost(&viewport,
		observe.WithScheduler(loop.QueueTask),
		observe.WithLogger(log))
	dm := domman.New(doc,
		domman.WithConfig(opts.Config),
		domman.WithLogger(log),
		domman.WithLoop(loop),
		domman.WithObserverHost(host),
		domman.WithStorage(store),
		domman.WithHTTPClient(client))
	rt := js.NewRuntime(loop, js.WithOutput(console), js.WithLogger(log))
	js.Bind(rt, dm)

	// Scripts run while the document is loading, so ready callbacks wait
	// for DOMContentLoaded as they do in a browser.
	doc.SetReadyState(dom.ReadyStateLoading)
	for i, script := range scripts {
		if err := rt.ExecuteScript(string(script.Content), opts.Scripts[i]); err != nil {
			return errors.Wrapf(err, "run %s", opts.Scripts[i])
		}
	}
	doc.SetReadyState(dom.ReadyStateInteractive)
	doc.SetReadyState(dom.ReadyStateComplete)
	host.Refresh()

	for _, e := range opts.Events {
		target := dm.Select(e.Selector)
		if target.Len() == 0 {
			log.WithField("selector", e.Selector).Warn("domman: event target not found")
			continue
		}
		target.Trigger(e.Type, nil)
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := loop.RunUntilIdle(runCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if n := loop.Pending(); n > 0 {
		log.WithField("pending", n).Info("domman: stopped with work pending")
	}

	if err := store.Save(); err != nil {
		return err
	}
	if root := doc.DocumentElement(); root != nil {
		fmt.Fprintln(out, root.OuterHTML())
	}
	if errs := rt.Errors(); len(errs) > 0 {
		return errors.Errorf("%d script error(s), first: %v", len(errs), errs[0])
	}
	return nil
}
