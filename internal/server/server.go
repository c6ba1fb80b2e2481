// Package server serves rendered field snapshots over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/snapshot"
)

// NewRouter returns the snapshot routes. At most cfg.Serve.MaxConcurrent
// renders run at once.
func NewRouter(cfg *config.Config) *gin.Engine {
	n := cfg.Serve.MaxConcurrent
	if n <= 0 {
		n = 1
	}
	return newRouter(cfg, semaphore.NewWeighted(int64(n)))
}

func newRouter(cfg *config.Config, renders *semaphore.Weighted) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Static background for pages that cannot run the live field.
	r.GET("/background.png", func(c *gin.Context) {
		opts, err := parseOptions(c, cfg)
		if err == nil {
			err = opts.Validate()
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		if cfg.Serve.RenderTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Serve.RenderTimeout)*time.Second)
			defer cancel()
		}

		if err := renders.Acquire(ctx, 1); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many renders in progress"})
			return
		}
		defer renders.Release(1)

		start := time.Now()
		img, err := snapshot.Render(ctx, opts)
		if errors.Is(err, snapshot.ErrInvalidOptions) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			log.Printf("serve: render abandoned: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "render timed out"})
			return
		}
		if err != nil {
			log.Printf("serve: render failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
			return
		}

		var buf bytes.Buffer
		if err := snapshot.WritePNG(&buf, img); err != nil {
			log.Printf("serve: encode failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
			return
		}
		log.Printf("serve: %dx%d, %d frames, seed %d in %s", opts.Width, opts.Height, opts.Frames, opts.Seed, time.Since(start))
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	})

	return r
}

// parseOptions reads width, height, frames and seed from the query, falling
// back to the config and enforcing the configured maxima.
func parseOptions(c *gin.Context, cfg *config.Config) (snapshot.Options, error) {
	width, err := queryInt(c, "width", cfg.Window.Width, cfg.Serve.MaxWidth)
	if err != nil {
		return snapshot.Options{}, err
	}
	height, err := queryInt(c, "height", cfg.Window.Height, cfg.Serve.MaxHeight)
	if err != nil {
		return snapshot.Options{}, err
	}
	frames, err := queryInt(c, "frames", 60, cfg.Serve.MaxFrames)
	if err != nil {
		return snapshot.Options{}, err
	}

	seed := cfg.Field.Seed
	if s := c.Query("seed"); s != "" {
		seed, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return snapshot.Options{}, errors.New("seed must be an integer")
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return snapshot.Options{
		Width:      width,
		Height:     height,
		Frames:     frames,
		Seed:       seed,
		Params:     cfg.Params(),
		Style:      cfg.Style(),
		Background: cfg.Background(),
	}, nil
}

func queryInt(c *gin.Context, key string, def, max int) (int, error) {
	s := c.Query(key)
	if s == "" {
		if max > 0 && def > max {
			def = max
		}
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	if max > 0 && v > max {
		return 0, errors.New(key + " exceeds " + strconv.Itoa(max))
	}
	return v, nil
}
