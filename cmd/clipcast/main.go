package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"clipcast/internal/analytics"
	"clipcast/internal/cmdlog"
	"clipcast/internal/config"
	"clipcast/internal/feature"
	"clipcast/internal/ingest"
	"clipcast/internal/metrics"
	"clipcast/internal/model"
	"clipcast/internal/predict"
	"clipcast/internal/serve"
	"clipcast/internal/store/artifactdb"
	"clipcast/internal/theme"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "train":
		cmdTrain()
	case "predict":
		cmdPredict()
	case "bulk":
		cmdBulk()
	case "stats":
		cmdStats()
	case "serve":
		cmdServe()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: clipcast <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init     Create a config file at ./clipcast.yaml")
	fmt.Println("  train    Fit the pipeline on the training CSV and report metrics")
	fmt.Println("  predict  Classify a single post from flags")
	fmt.Println("  bulk     Classify every row of an uploaded CSV")
	fmt.Println("  stats    Print popularity aggregations for the training CSV")
	fmt.Println("  serve    Expose the inference API over HTTP")
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.Default()
			cfg.ResolveEnv()
			return cfg, nil
		}
		return cfg, err
	}
	return cfg, nil
}

func pipelineParams(cfg config.Config) predict.Params {
	p := predict.DefaultParams()
	if cfg.Pipeline.PopularityThreshold > 0 {
		p.Threshold = cfg.Pipeline.PopularityThreshold
	}
	if cfg.Pipeline.VocabSize > 0 {
		p.VocabSize = cfg.Pipeline.VocabSize
	}
	if cfg.Pipeline.Trees > 0 {
		p.Trees = cfg.Pipeline.Trees
	}
	if cfg.Pipeline.Seed != 0 {
		p.Seed = cfg.Pipeline.Seed
	}
	if cfg.Pipeline.TestFraction > 0 {
		p.TestFraction = cfg.Pipeline.TestFraction
	}
	p.MaxDepth = cfg.Pipeline.MaxDepth
	return p
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./clipcast.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdTrain() {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	cfgPath := fs.String("config", "./clipcast.yaml", "config path")
	csvPath := fs.String("data", "", "training CSV (overrides config)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("train", func() error {
		cfg, err := loadConfig(*cfgPath)
		if err != nil {
			return err
		}
		if *csvPath != "" {
			cfg.Data.CSVPath = *csvPath
		}
		posts, skipped, err := ingest.LoadTrainingCSV(cfg.Data.CSVPath)
		if err != nil {
			return err
		}
		start := time.Now()
		res, err := predict.Train(posts, pipelineParams(cfg))
		if err != nil {
			metrics.TrainErrors.Inc()
			return err
		}
		metrics.ObserveTrainDuration(start)

		db, err := artifactdb.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveSet(context.Background(), res.Artifacts); err != nil {
			return err
		}

		fmt.Printf("Trained on %d rows (%d skipped at ingest, %d dropped for bad timestamps)\n",
			res.Rows, skipped, res.Dropped)
		printEvaluation(res)
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func printEvaluation(res *predict.TrainResult) {
	ev := res.Eval
	fmt.Printf("Accuracy:  %.2f%%\n", ev.Accuracy*100)
	fmt.Printf("Precision: %.2f%%\n", ev.Precision*100)
	fmt.Printf("Recall:    %.2f%%\n", ev.Recall*100)
	fmt.Printf("F1 Score:  %.2f%%\n", ev.F1*100)
	fmt.Println("Per-class report:")
	for c := 0; c < 2; c++ {
		r := ev.PerClass[c]
		fmt.Printf("  %-12s precision=%.2f recall=%.2f f1=%.2f support=%d\n",
			model.DisplayLabel(c), r.Precision, r.Recall, r.F1, r.Support)
	}
	fmt.Println("Confusion matrix (rows=actual, cols=predicted, order [0,1]):")
	for i := 0; i < 2; i++ {
		fmt.Printf("  [%5d %5d]\n", ev.Confusion[i][0], ev.Confusion[i][1])
	}
}

func cmdPredict() {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	cfgPath := fs.String("config", "./clipcast.yaml", "config path")
	text := fs.String("text", "", "caption text")
	author := fs.String("author", "", "author name")
	music := fs.String("music", "", "music track name")
	duration := fs.Float64("duration", 0, "video duration in seconds")
	when := fs.String("time", "", "upload time, e.g. 12:01:00")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("predict", func() error {
		svc, closeDB, err := restoredService(*cfgPath)
		if err != nil {
			return err
		}
		defer closeDB()
		class, err := svc.PredictOne(*text, *author, *music, *duration, feature.ParseClock(*when))
		if err != nil {
			return err
		}
		fmt.Println(model.DisplayLabel(class))
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func cmdBulk() {
	fs := flag.NewFlagSet("bulk", flag.ExitOnError)
	cfgPath := fs.String("config", "./clipcast.yaml", "config path")
	in := fs.String("in", "", "input CSV")
	out := fs.String("out", "", "output CSV (default stdout)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("bulk", func() error {
		svc, closeDB, err := restoredService(*cfgPath)
		if err != nil {
			return err
		}
		defer closeDB()
		posts, err := ingest.LoadBulkCSV(*in)
		if err != nil {
			return err
		}
		preds, err := svc.PredictBulk(posts)
		if err != nil {
			return err
		}
		var w io.Writer = os.Stdout
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return writeBulkCSV(w, preds)
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func writeBulkCSV(w io.Writer, preds []model.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"text", "authorMeta.name", "musicMeta.musicName", "videoMeta.duration", "createTimeISO", "popularity"}); err != nil {
		return err
	}
	for _, pr := range preds {
		created := ""
		if pr.Post.TimeValid {
			created = pr.Post.CreatedAt.Format(time.RFC3339)
		}
		rec := []string{
			pr.Post.Text,
			pr.Post.Author,
			pr.Post.Music,
			strconv.FormatFloat(pr.Post.Duration, 'f', -1, 64),
			created,
			pr.Label,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cmdStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	cfgPath := fs.String("config", "./clipcast.yaml", "config path")
	topK := fs.Int("top", 10, "top music tracks to show")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("stats", func() error {
		cfg, err := loadConfig(*cfgPath)
		if err != nil {
			return err
		}
		posts, _, err := ingest.LoadTrainingCSV(cfg.Data.CSVPath)
		if err != nil {
			return err
		}
		threshold := pipelineParams(cfg).Threshold
		byHour := analytics.PopularityByHour(posts, threshold)
		fmt.Println("Popularity by upload hour:")
		for _, h := range analytics.SortedHourKeys(byHour) {
			b := byHour[h]
			fmt.Printf("  %02d:00  popular=%d  not=%d\n", h, b.Popular, b.NotPopular)
		}
		fmt.Println("Popularity by weekday:")
		byDay := analytics.PopularityByDay(posts, threshold)
		for _, name := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
			if b, ok := byDay[name]; ok {
				fmt.Printf("  %-9s popular=%d  not=%d\n", name, b.Popular, b.NotPopular)
			}
		}
		fmt.Printf("Top %d music tracks by interactions:\n", *topK)
		for _, s := range analytics.TopMusic(posts, *topK) {
			fmt.Printf("  %-40s %d\n", s.Music, s.TotalInteractions)
		}
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func cmdServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "./clipcast.yaml", "config path")
	addr := fs.String("addr", "", "listen address (overrides config)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("serve", func() error {
		cfg, err := loadConfig(*cfgPath)
		if err != nil {
			return err
		}
		if *addr != "" {
			cfg.Server.Addr = *addr
		}
		svc := predict.NewService()
		db, err := artifactdb.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := restoreLatest(svc, db); err != nil {
			return err
		}
		metrics.StartServer(cfg.Metrics.Addr)
		srv := serve.New(svc, cfg.Server.RPS, cfg.Server.Burst)
		return srv.Run(cfg.Server.Addr)
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

// restoredService opens the artifact store and seeds a service with the last
// fitted set. The returned closer must be deferred by the caller.
func restoredService(cfgPath string) (*predict.Service, func(), error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := artifactdb.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, err
	}
	svc := predict.NewService()
	if err := restoreLatest(svc, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return svc, func() { _ = db.Close() }, nil
}

// restoreLatest seeds svc from the newest stored artifact set. An empty store
// is fine (the service just stays unfitted); any other load failure means a
// damaged store and is surfaced to the caller.
func restoreLatest(svc *predict.Service, db *artifactdb.DB) error {
	a, err := db.LoadLatest(context.Background())
	if err != nil {
		if errors.Is(err, artifactdb.ErrNoArtifacts) {
			return nil
		}
		return fmt.Errorf("load stored artifacts: %w", err)
	}
	svc.Restore(a)
	return nil
}
