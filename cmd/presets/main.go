package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	get "github.com/hashicorp/go-getter"

	"github.com/DinnerBuffet/CubicChunks/internal/config"
)

func main() {
	var (
		base = flag.String("base", "https://github.com/DinnerBuffet/CubicChunks.git", "repository holding presets")
		dir  = flag.String("dir", "presets", "directory of presets inside the repository")
		ref  = flag.String("ref", "main", "git ref to fetch")
		out  = flag.String("o", "./presets", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *base == "" {
		panic("base url required")
	}

	if err := os.RemoveAll(*out); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading presets %s", *out)

	url := fmt.Sprintf("git::%s//%s?ref=%s", *base, *dir, *ref)
	if err := get.Get(*out, url); err != nil {
		panic(err)
	}

	kept, dropped, err := checkPresets(*out)
	if err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading presets %s: %d valid, %d rejected", *out, kept, dropped)
}

// checkPresets validates every YAML file under dir against the config schema
// and field rules, and removes the ones cubic would refuse to run.
func checkPresets(dir string) (kept, dropped int, err error) {
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		cfg, perr := config.Parse(raw)
		if perr == nil {
			perr = cfg.Validate()
		}
		if perr != nil {
			log.Default().Printf("rejecting preset %s: %v", path, perr)
			dropped++
			return os.Remove(path)
		}
		kept++
		return nil
	})
	return kept, dropped, err
}
