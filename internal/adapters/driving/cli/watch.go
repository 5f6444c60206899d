package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/thekla/internal/core/ports/driving"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [config-file|config-dir]",
	Short: "Rerun configs whenever they or their documents change",
	Long: `Runs the configs once, then watches the config files and the document
directories they read. Changes are coalesced and rerun at most once per
interval. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "minimum time between reruns")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if runService == nil {
		return errors.New("run service not configured")
	}
	if watchInterval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", watchInterval)
	}

	configs, err := collectConfigs(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s, err := newWatchSession(runService, configs, watchInterval, func(reports []*driving.RunReport, err error) {
		outputReports(cmd, reports)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	defer s.close()

	if len(args) > 0 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			if err := s.watchConfigDir(args[0]); err != nil {
				return err
			}
		}
	}

	cmd.Printf("Watching %d configs, press Ctrl-C to stop.\n", len(configs))
	return s.loop(ctx)
}

// watchSession reruns configs on file system changes.
type watchSession struct {
	runs      driving.RunService
	watcher   *fsnotify.Watcher
	limiter   *rate.Limiter
	report    func([]*driving.RunReport, error)
	configDir string
	configs   map[string]bool
	docDirs   map[string]bool
	outputs   map[string]bool
	watched   map[string]bool
}

func newWatchSession(
	runs driving.RunService,
	configs []string,
	interval time.Duration,
	report func([]*driving.RunReport, error),
) (*watchSession, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	s := &watchSession{
		runs:    runs,
		watcher: w,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		report:  report,
		configs: make(map[string]bool),
		docDirs: make(map[string]bool),
		outputs: make(map[string]bool),
		watched: make(map[string]bool),
	}
	if err := s.setConfigs(configs); err != nil {
		w.Close()
		return nil, err
	}
	return s, nil
}

func (s *watchSession) close() error {
	return s.watcher.Close()
}

// watchConfigDir makes new files in dir count as configs.
func (s *watchSession) watchConfigDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	s.configDir = abs
	return s.add(abs)
}

func (s *watchSession) setConfigs(configs []string) error {
	clear(s.configs)
	for _, c := range configs {
		abs, err := filepath.Abs(c)
		if err != nil {
			return err
		}
		s.configs[abs] = true
		// Watch the directory; editors replace files on save.
		if err := s.add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	return nil
}

func (s *watchSession) add(dir string) error {
	if s.watched[dir] {
		return nil
	}
	if err := s.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.watched[dir] = true
	return nil
}

func (s *watchSession) configList() []string {
	list := make([]string, 0, len(s.configs))
	for c := range s.configs {
		list = append(list, c)
	}
	return list
}

// relevant reports whether an event should trigger a rerun.
func (s *watchSession) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	path := filepath.Clean(ev.Name)
	if isSwapFile(path) || s.outputs[path] {
		return false
	}
	dir := filepath.Dir(path)
	switch {
	case s.configs[path]:
		return true
	case s.configDir != "" && dir == s.configDir && ev.Has(fsnotify.Create):
		return true
	case s.docDirs[dir] && filepath.Ext(path) == ".txt":
		return true
	default:
		return false
	}
}

// rerun runs every config and starts watching the document directories the
// reports name.
func (s *watchSession) rerun(ctx context.Context) {
	if s.configDir != "" {
		configs, err := configsInDir(s.configDir, s.outputs)
		if err == nil {
			err = s.setConfigs(configs)
		}
		if err != nil {
			s.report(nil, err)
			return
		}
	}

	reports, err := s.runs.RunAll(ctx, sortedCopy(s.configList()))
	for _, r := range reports {
		for _, out := range []string{r.SemevalFile, r.ChartPath} {
			if out != "" {
				s.outputs[filepath.Clean(out)] = true
			}
		}
		if r.DocDir == "" {
			continue
		}
		dir := filepath.Clean(r.DocDir)
		s.docDirs[dir] = true
		if addErr := s.add(dir); addErr != nil {
			err = errors.Join(err, addErr)
		}
	}
	s.report(reports, err)
}

// loop runs once, then reruns on relevant events until ctx is done.
// Events arriving while a rerun is pending are folded into it.
func (s *watchSession) loop(ctx context.Context) error {
	s.limiter.Allow()
	s.rerun(ctx)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if pending == nil && s.relevant(ev) {
				pending = time.After(s.limiter.Reserve().Delay())
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			s.report(nil, fmt.Errorf("watcher: %w", err))
		case <-pending:
			pending = nil
			s.rerun(ctx)
		}
	}
}

func sortedCopy(list []string) []string {
	out := slices.Clone(list)
	slices.Sort(out)
	return out
}
