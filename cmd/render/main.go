// Command render draws cards from JSON or CSV records without the HTTP
// service.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/youruser/casecard/internal/app"
	"github.com/youruser/casecard/internal/card"
	"github.com/youruser/casecard/internal/config"
	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
	"github.com/youruser/casecard/internal/logger"
	"github.com/youruser/casecard/internal/record"
	"github.com/youruser/casecard/internal/util"
)

type recordFile struct {
	Fields    map[string]string `json:"fields"`
	Photo     string            `json:"photo"`
	Timestamp string            `json:"timestamp"`
	Persons   []struct {
		Number int               `json:"number"`
		Type   string            `json:"type"`
		Fields map[string]string `json:"fields"`
		Photo  string            `json:"photo"`
	} `json:"persons"`
}

func main() {
	var (
		configPath = flag.String("config", "", "optional config file")
		layoutArg  = flag.String("layout", "", "layout name or path to a layout yaml file")
		recordPath = flag.String("record", "", "render one card from a JSON record")
		multiPath  = flag.String("multi", "", "render a multi-person card from a JSON case")
		csvPath    = flag.String("csv", "", "render one card per CSV row")
		outDir     = flag.String("out-dir", ".", "output directory for -csv")
		outPath    = flag.String("o", "", "output file for -record and -multi")
		match      = flag.String("match", "", "with -csv, only rows containing every word")
		where      = flag.String("where", "", "with -csv, only rows with key=value[,key=value]")
	)
	flag.Parse()

	modes := 0
	for _, s := range []string{*recordPath, *multiPath, *csvPath} {
		if s != "" {
			modes++
		}
	}
	if modes != 1 {
		log.Fatal("exactly one of -record, -multi or -csv is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(cfg.Log.Level, "text", os.Stderr)

	name := *layoutArg
	var extra []layout.Spec
	if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
		s, err := layout.LoadFile(name)
		if err != nil {
			log.Fatalf("load layout: %v", err)
		}
		extra = append(extra, s)
		name = s.Name
	}
	catalog, err := app.BuildCatalog(cfg, lg, nil, extra...)
	if err != nil {
		log.Fatalf("build layouts: %v", err)
	}

	switch {
	case *recordPath != "":
		if name == "" {
			name = cfg.Render.DefaultLayout
		}
		err = renderRecord(catalog, name, *recordPath, *outPath)
	case *multiPath != "":
		if name == "" {
			name = cfg.Render.MultiLayout
		}
		err = renderMulti(catalog, name, *multiPath, *outPath)
	default:
		if name == "" {
			name = cfg.Render.DefaultLayout
		}
		opt := record.FilterOptions{FreeWords: *match, Equals: record.ParseEquals(*where)}
		var n int
		n, err = renderCSV(catalog, name, *csvPath, *outDir, opt, time.Now())
		fmt.Printf("rendered %d cards into %s\n", n, *outDir)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func readRecordFile(path string) (recordFile, error) {
	var rf recordFile
	data, err := os.ReadFile(path)
	if err != nil {
		return rf, err
	}
	if err := json.Unmarshal(data, &rf); err != nil {
		return rf, fmt.Errorf("parse %s: %w", path, err)
	}
	return rf, nil
}

// loadPhoto accepts a data URI or a path relative to the record file.
func loadPhoto(base, ref string) ([]byte, error) {
	if ref == "" {
		return nil, nil
	}
	if strings.HasPrefix(ref, "data:") {
		return imagepkg.DecodeDataURI(ref)
	}
	if !filepath.IsAbs(ref) {
		ref = filepath.Join(filepath.Dir(base), ref)
	}
	return os.ReadFile(ref)
}

func stamp(ts string) string {
	if ts == "" {
		return record.Stamp(time.Now())
	}
	return ts
}

func renderRecord(catalog *card.Catalog, name, path, out string) error {
	r, err := catalog.Single(name)
	if err != nil {
		return err
	}
	rf, err := readRecordFile(path)
	if err != nil {
		return err
	}
	photo, err := loadPhoto(path, rf.Photo)
	if err != nil {
		return fmt.Errorf("photo: %w", err)
	}
	rec := record.Record{Fields: rf.Fields, Photo: photo, Timestamp: stamp(rf.Timestamp)}
	c, err := r.Render(rec)
	if err != nil {
		return err
	}
	if out == "" {
		out = record.FileName(rec, time.Now(), c.Format.Ext())
	}
	return writeCard(out, c)
}

func renderMulti(catalog *card.Catalog, name, path, out string) error {
	m, err := catalog.Multi(name)
	if err != nil {
		return err
	}
	rf, err := readRecordFile(path)
	if err != nil {
		return err
	}
	persons := make([]record.Person, 0, len(rf.Persons))
	for _, p := range rf.Persons {
		photo, err := loadPhoto(path, p.Photo)
		if err != nil {
			return fmt.Errorf("person %d photo: %w", p.Number, err)
		}
		persons = append(persons, record.Person{Number: p.Number, Type: p.Type, Fields: p.Fields, Photo: photo})
	}
	c, err := m.Render(record.CaseRecord{Fields: rf.Fields, Timestamp: stamp(rf.Timestamp)}, persons)
	if err != nil {
		return err
	}
	if out == "" {
		out = fmt.Sprintf("case_%d%s", time.Now().UnixMilli(), c.Format.Ext())
	}
	return writeCard(out, c)
}

// renderCSV writes one card per selected row into outDir and returns how
// many were written. Row failures are collected rather than stopping the
// batch. File names are stamped from base plus the row index so they stay
// unique within one run.
func renderCSV(catalog *card.Catalog, name, path, outDir string, opt record.FilterOptions, base time.Time) (int, error) {
	r, err := catalog.Single(name)
	if err != nil {
		return 0, err
	}
	recs, err := record.LoadCSV(path)
	if err != nil {
		return 0, err
	}
	recs = record.Filter(recs, opt)
	if err := util.EnsureDir(outDir); err != nil {
		return 0, err
	}
	var (
		errs []error
		done int
	)
	for i, rec := range recs {
		rec.Timestamp = stamp(rec.Timestamp)
		c, err := r.Render(rec)
		if err == nil {
			at := base.Add(time.Duration(i) * time.Millisecond)
			err = writeCard(filepath.Join(outDir, record.FileName(rec, at, c.Format.Ext())), c)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d (%s): %w", i+1, rec.Name(), err))
			continue
		}
		done++
	}
	return done, errors.Join(errs...)
}

func writeCard(path string, c *card.Card) error {
	if err := os.WriteFile(path, c.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s (%dx%d)\n", path, c.Width, c.Height)
	return nil
}
