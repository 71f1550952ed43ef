package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/nipsysdev/libstorage-go/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON node configuration")
	flag.Parse()

	log.Printf("libstorage-go version: %s", storage.WrapperVersion)

	cfg := storage.DefaultConfig()
	if *configPath != "" {
		loaded, err := storage.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	ctx := context.Background()
	node, err := storage.New(ctx, cfg)
	if err != nil {
		if errors.Is(err, storage.ErrNotBuilt) {
			fmt.Printf("native engine unavailable: %v\n", err)
			return
		}
		log.Fatalf("unexpected failure creating node: %v", err)
	}
	defer func() {
		if derr := node.Destroy(); derr != nil {
			log.Printf("destroy error: %v", derr)
		}
	}()

	version, err := node.Version(ctx)
	if err != nil {
		log.Fatalf("query engine version: %v", err)
	}
	revision, err := node.Revision(ctx)
	if err != nil {
		log.Fatalf("query engine revision: %v", err)
	}
	fmt.Printf("engine %s (%s)\n", version, revision)

	if err := node.Start(ctx); err != nil {
		log.Fatalf("start node: %v", err)
	}
	defer func() {
		if serr := node.Stop(ctx); serr != nil {
			log.Printf("stop error: %v", serr)
		}
	}()

	peerID, err := node.PeerID(ctx)
	if err != nil {
		log.Fatalf("query peer id: %v", err)
	}
	space, err := node.Space(ctx)
	if err != nil {
		log.Fatalf("query space: %v", err)
	}
	fmt.Printf("peer id: %s\n", peerID)
	fmt.Printf("quota: %d used of %d bytes (%d blocks)\n",
		space.QuotaUsedBytes, space.QuotaMaxBytes, space.TotalBlocks)
}
