// kotlinlsp wires the Analysis Core together and serves it until told to stop.
//
// Grounded on cmd/soong_build/main.go's shape: parse flags, construct the
// long-lived singletons, perform the first build, then block until a shutdown
// signal, at which point every tracked resource is released. The first build
// runs synchronously: the ready log line follows its completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/archive"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/config"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/core"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/klib"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/logging"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/resolver"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/session"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: kotlinlsp -root <project root>\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	root := flag.String("root", "", "project root directory")
	variant := flag.String("variant", "debug", "build variant (Android classpath config, debug|release|...)")
	javaHome := flag.String("java_home", "", "JDK home override; defaults to $JAVA_HOME")
	primaryTarget := flag.String("primary_target", "", "override the default primary-session platform pick")
	develop := flag.Bool("development_logging", false, "use the human-readable development log encoder")
	flag.Parse()

	if *root == "" {
		usage()
	}

	log := logging.New(*develop)
	defer log.Sync()

	cfg := config.New(
		config.WithBuildVariant(*variant),
		config.WithJavaHome(*javaHome),
		config.WithPrimaryTarget(*primaryTarget),
	)

	stubs := klib.New(log)
	arch := archive.New(stubs, log)

	providers := []resolver.Provider{
		resolver.NewGradleProvider(resolver.NewExecCommandRunner(), log),
	}
	res := resolver.New(providers, resolver.NewSourceOnlyProvider(), log)

	builder := session.NewBuilder(newPlaceholderBackend(), arch, cfg.JavaHome, log)

	c := core.New(*root, cfg, res, builder, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c.InitialBuild(ctx)
	log.Info("kotlinlsp: analysis core ready", zap.String("root", *root))

	<-ctx.Done()
	log.Info("kotlinlsp: shutting down")
	if err := c.Dispose(); err != nil {
		log.Error("kotlinlsp: dispose failed", zap.Error(err))
	}
}
