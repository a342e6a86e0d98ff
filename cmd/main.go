package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/config"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/embedding"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/helper"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/ingest"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/llm"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/rag"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/seed"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/server"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store/factory"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/translate"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	serve := flag.Bool("serve", false, "Start the HTTP server")
	filePath := flag.String("file", "", "Path to a CV file to ingest")
	dirPath := flag.String("dir", "", "Path to a directory of CVs to ingest")
	text := flag.String("text", "", "Raw CV text to ingest")
	query := flag.String("query", "", "Question to ask about the ingested candidates")
	sessionID := flag.String("session", "default", "Session the command operates on")
	wipe := flag.Bool("wipe", false, "Remove all chunks in the session")
	status := flag.Bool("status", false, "Print the session chunk count")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	app, cleanup := buildApp(ctx, cfg)
	defer cleanup()

	switch {
	case *serve:
		if err := seed.Run(ctx, app.ingest, cfg.Seed); err != nil {
			log.Fatal().Err(err).Msg("Error seeding sample data")
		}
		srv := server.New(app.ingest, app.answerer, cfg.Server, cfg.Seed.SessionID)
		if err := srv.Run(); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}

	case *wipe:
		if err := app.ingest.Wipe(ctx, *sessionID); err != nil {
			log.Fatal().Err(err).Msg("Error wiping session")
		}
		log.Info().Str("session", *sessionID).Msg("Session wiped")

	case *status:
		count, err := app.ingest.Count(ctx, *sessionID)
		if err != nil {
			log.Fatal().Err(err).Msg("Error reading session status")
		}
		fmt.Printf("session %s: %d chunks\n", *sessionID, count)

	case *filePath != "":
		res, err := app.ingest.IngestFile(ctx, *filePath, *sessionID)
		if err != nil {
			log.Fatal().Err(err).Msg("Error ingesting file")
		}
		helper.PrettyPrint(res)

	case *dirPath != "":
		summary, err := app.ingest.IngestDirectory(ctx, *dirPath, *sessionID)
		if err != nil {
			log.Fatal().Err(err).Msg("Error ingesting directory")
		}
		helper.PrettyPrint(summary)

	case *text != "":
		res, err := app.ingest.IngestText(ctx, *text, "raw_text_input", *sessionID)
		if err != nil {
			log.Fatal().Err(err).Msg("Error ingesting text")
		}
		helper.PrettyPrint(res)

	case *query != "":
		answer, err := app.answerer.Ask(ctx, *query, *sessionID)
		if err != nil {
			log.Fatal().Err(err).Msg("Error answering query")
		}
		fmt.Printf("%s\n", answer)

	default:
		log.Fatal().Msg("Provide one of -serve, -file, -dir, -text, -query, -wipe or -status")
	}
}

type app struct {
	ingest   *ingest.Service
	answerer *rag.Answerer
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, func()) {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	repo, closeRepo, err := factory.Open(ctx, cfg, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}

	// A nil *Client must not become a non-nil Generator interface.
	var generator llm.Generator
	client, err := llm.New(&cfg.ChatLLM)
	if err != nil {
		closeRepo()
		log.Fatal().Err(err).Msg("Error initializing chat model")
	}
	if client != nil {
		generator = client
	} else {
		log.Warn().Msg("No chat model configured, answering is disabled")
	}

	ingestSvc := ingest.NewService(repo, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	translator := translate.ForStrategy(cfg.RAG.Translator, generator)
	retriever := rag.NewRetriever(repo, translator, cfg.RAG.TopK)
	answerer := rag.NewAnswerer(retriever, generator)

	return &app{ingest: ingestSvc, answerer: answerer}, closeRepo
}
