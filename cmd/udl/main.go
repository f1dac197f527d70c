package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jeeva562/Universal-Downloader/internal/client"
	"github.com/jeeva562/Universal-Downloader/internal/tui"
)

func main() {
	var (
		serverFlag   = flag.String("server", client.DefaultServerURL, "Relay server base URL")
		formatFlag   = flag.String("format", "", "Format: video, 720p, 480p, 360p, audio, image (default depends on the URL)")
		outputFlag   = flag.String("o", ".", "Output directory")
		plainFlag    = flag.Bool("plain", false, "Plain line output instead of the interactive UI")
		parallelFlag = flag.Int("j", client.DefaultParallel, "Parallel downloads when several URLs are given")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("Universal Downloader - download media through a relay server")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  udl [options] <URL> [URL...]")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	urls := flag.Args()
	for _, u := range urls {
		if !client.ValidURL(u) {
			fmt.Fprintf(os.Stderr, "Invalid URL: %s (expected an http(s) URL)\n", u)
			os.Exit(1)
		}
	}

	c := client.New(*serverFlag)

	if len(urls) == 1 && !*plainFlag {
		if err := tui.Run(tui.Options{Client: c, URL: urls[0], Format: *formatFlag, Dir: *outputFlag}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runPlain(ctx, c, urls, *formatFlag, *outputFlag, *parallelFlag); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n  %v\n", client.FriendlyMessage(err), err)
		os.Exit(1)
	}
}

// runPlain downloads urls without the interactive UI, printing a line every
// ten percent.
func runPlain(ctx context.Context, c *client.Client, urls []string, format, dir string, parallel int) error {
	var mu sync.Mutex
	reported := make(map[string]int)

	onProgress := func(rawURL string, p client.Progress) {
		step := int(p.Percent) / 10 * 10
		mu.Lock()
		defer mu.Unlock()
		if last, ok := reported[rawURL]; ok && step <= last {
			return
		}
		reported[rawURL] = step

		suffix := ""
		if p.Estimated {
			suffix = " (estimated)"
		}
		fmt.Printf("%s: %d%% (%.2f MB)%s\n", rawURL, step, float64(p.Received)/1024/1024, suffix)
	}

	paths, err := c.DownloadAll(ctx, urls, format, dir, parallel, onProgress)
	for i, p := range paths {
		if p != "" {
			fmt.Printf("Saved %s -> %s\n", urls[i], p)
		}
	}
	return err
}
