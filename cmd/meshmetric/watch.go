package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/philipparndt/meshmetric/internal/config"
	"github.com/philipparndt/meshmetric/internal/loader"
	"github.com/philipparndt/meshmetric/internal/processing"
	"github.com/philipparndt/meshmetric/pkg/dataset"
	"github.com/philipparndt/meshmetric/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	watchOutput string
	watchImage  string
)

var watchCmd = &cobra.Command{
	Use:   "watch [mesh A] [mesh B]",
	Short: "Recompute the distance whenever one of the meshes changes",
	Long: `Compute the distance from mesh A to mesh B, then watch both files (and
everything an OpenSCAD model includes) and recompute on every change until
interrupted.`,
	Args: cobra.ExactArgs(2),
	Run:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Save mesh A with the distance arrays after each run (.vtk)")
	watchCmd.Flags().StringVar(&watchImage, "png", "", "Render the colored mesh to a PNG file after each run")
	watchCmd.Flags().BoolVar(&distanceAbsolute, "absolute", false, "Compute absolute instead of signed distances")
	watchCmd.Flags().Float64Var(&distanceStep, "step", 0, "Sampling step as a fraction of the bounding box diagonal of mesh B (default from config)")
	watchCmd.Flags().IntVar(&distanceMinFreq, "min-freq", 0, "Minimum number of samples along a triangle edge (default from config)")
}

type watchSession struct {
	mu   sync.Mutex
	cfg  config.Config
	proc *processing.Processor
	a, b *dataset.Dataset
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	distanceFlags(cmd, &cfg)

	p := newProcessor(cfg)
	a, _ := openDataset(p, cfg, args[0])
	b, _ := openDataset(p, cfg, args[1])
	cfg.Apply(a)
	s := &watchSession{cfg: cfg, proc: p, a: a, b: b}
	s.run()

	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	for _, ds := range []*dataset.Dataset{a, b} {
		files, err := loader.Dependencies(ds.FileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		target := ds
		if err := fw.Watch(files, func(path string) { s.changed(target, path) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	fw.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching for changes, press Ctrl+C to stop")
	select {
	case <-ctx.Done():
	case <-fw.Done():
	}
}

// changed reloads ds after one of its files changed and measures again.
func (s *watchSession) changed(ds *dataset.Dataset, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Printf("\n%s changed\n", path)
	if _, err := s.proc.Reload(ds); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	s.cfg.Apply(s.a)
	s.run()
}

func (s *watchSession) run() {
	if err := computeDistance(s.proc, s.a, s.b); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	if watchOutput != "" {
		fileName, err := s.proc.SaveFile(watchOutput, s.a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
			return
		}
		fmt.Printf("Saved %s\n", fileName)
	}
	if watchImage != "" {
		renderDataset(s.a, watchImage)
	}
}
