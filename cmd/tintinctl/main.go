package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/kevmo314/go-tintin"
)

type assignment struct {
	id    string
	value uint32
}

func main() {
	path := flag.String("path", "", "path to the usb device, the first attached board if empty")
	configPath := flag.String("config", "", "path to a yaml config")
	get := flag.String("get", "", "parameter to print, or \"all\"")
	save := flag.String("save", "", "write a snapshot of the register parameters to this file")
	restore := flag.String("restore", "", "restore a snapshot from this file")
	modes := flag.Bool("modes", false, "print the supported video modes")
	var sets []assignment
	flag.Func("set", "set a parameter, id=value (repeatable)", func(s string) error {
		id, v, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("expected id=value, got %q", s)
		}
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return err
		}
		sets = append(sets, assignment{id: id, value: uint32(n)})
		return nil
	})

	flag.Parse()

	cfg := tintin.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = tintin.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var dev *tintin.Handle
	if *path != "" {
		dev, err = tintin.OpenPath(*path)
	} else {
		dev, err = tintin.OpenDevice(cfg)
	}
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}

	camera, err := tintin.New(dev, tintin.WithConfig(cfg), tintin.WithLogger(logger))
	if err != nil {
		camera.Close()
		log.Fatalf("Failed to initialize camera: %v", err)
	}
	defer camera.Close()

	if *restore != "" {
		data, err := os.ReadFile(*restore)
		if err != nil {
			log.Fatalf("Failed to read snapshot: %v", err)
		}
		s, err := tintin.UnmarshalSnapshot(data)
		if err != nil {
			log.Fatal(err)
		}
		if s.Product != dev.Descriptor().ProductID {
			logger.Warn("snapshot taken on another variant", "snapshot_product", fmt.Sprintf("%04x", s.Product))
		}
		if err := camera.Restore(s); err != nil {
			log.Fatalf("Failed to restore snapshot: %v", err)
		}
	}

	for _, a := range sets {
		if err := camera.Set(a.id, a.value); err != nil {
			log.Fatalf("Failed to set %s: %v", a.id, err)
		}
	}

	switch *get {
	case "":
	case "all":
		ps, err := camera.Parameters()
		if err != nil {
			log.Fatal(err)
		}
		for _, p := range ps {
			v, err := camera.Get(p.ID())
			if err != nil {
				fmt.Printf("%-24s error: %v\n", p.ID(), err)
				continue
			}
			fmt.Printf("%-24s %6d %-3s [%d, %d] %s\n", p.ID(), v, p.Unit(), p.LowerLimit(), p.UpperLimit(), p.Access())
		}
	default:
		v, err := camera.Get(*get)
		if err != nil {
			log.Fatalf("Failed to get %s: %v", *get, err)
		}
		fmt.Println(v)
	}

	if *modes {
		best, err := camera.MaximumVideoMode()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("field of view half angle: %.4f rad\n", camera.FieldOfView())
		for _, m := range camera.SupportedVideoModes() {
			marker := " "
			if m.FrameSize == best.FrameSize && m.FrameRate == best.FrameRate {
				marker = "*"
			}
			fmt.Printf("%s %s @ %s, %d bytes per pixel\n", marker, m.FrameSize, m.FrameRate, m.BytesPerPixel)
		}
	}

	if *save != "" {
		s, err := camera.Snapshot()
		if err != nil {
			log.Fatal(err)
		}
		data, err := s.MarshalBinary()
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*save, data, 0o644); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
	}
}
