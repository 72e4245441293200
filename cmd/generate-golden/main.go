package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
)

// GoldenData is one recorded call: raw call data and the exact output bytes.
type GoldenData struct {
	Name     string `json:"name"`
	Calldata string `json:"calldata"`
	Output   string `json:"output"`
}

func main() {
	outputDir := flag.String("out", "internal/dispatch/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	var data []GoldenData
	fmt.Println("Generating golden data...")

	for _, v := range vectors() {
		out := dispatch.Call(v.calldata)
		if err := verify(v, out); err != nil {
			fmt.Fprintf(os.Stderr, "Oracle mismatch: %v\n", err)
			os.Exit(1)
		}
		data = append(data, GoldenData{
			Name:     v.name,
			Calldata: abi.EncodeHex(v.calldata),
			Output:   abi.EncodeHex(out),
		})
	}

	filename := filepath.Join(*outputDir, "golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated %d vectors at %s\n", len(data), filename)
}
