package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kevmo314/go-tintin"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config overriding the default product ids")
	flag.Parse()

	cfg := tintin.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = tintin.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	fmt.Printf("Listing TintinCDK boards (vendor %04x)...\n", cfg.VendorID)

	devices, err := tintin.FindDevices(cfg)
	if err != nil {
		log.Fatalf("Failed to list devices: %v", err)
	}

	if len(devices) == 0 {
		fmt.Printf("No boards found, expected product %04x (video class) or %04x (bulk)\n", cfg.UVCProductID, cfg.BulkProductID)
		return
	}

	fmt.Printf("Found %d board(s):\n\n", len(devices))

	for i, dev := range devices {
		kind, _ := cfg.Variant(dev.Descriptor.ProductID)
		fmt.Printf("Board %d:\n", i+1)
		fmt.Printf("  Path: %s\n", dev.Path)
		fmt.Printf("  VID:PID: %04x:%04x (%s)\n", dev.Descriptor.VendorID, dev.Descriptor.ProductID, kind)
		fmt.Printf("  USB Version: %d.%02d\n", dev.Descriptor.USBVersion>>8, dev.Descriptor.USBVersion&0xFF)

		handle, err := dev.Open()
		if err != nil {
			fmt.Printf("  (Could not open: %v)\n", err)
			fmt.Println()
			continue
		}
		config, err := handle.GetActiveConfigDescriptor()
		if err == nil {
			fmt.Printf("  Active Config: %d, Interfaces: %d\n", config.ConfigurationValue, config.NumInterfaces)
			for _, iface := range config.Interfaces {
				for _, alt := range iface.AltSettings {
					if alt.AlternateSetting != 0 {
						continue
					}
					fmt.Printf("    Interface %d: class %d subclass %d, %d endpoint(s)\n",
						alt.InterfaceNumber, alt.InterfaceClass, alt.InterfaceSubClass, len(alt.Endpoints))
				}
			}
		}
		handle.Close()

		fmt.Println()
	}
}
