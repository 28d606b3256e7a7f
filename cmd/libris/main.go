package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"libris/internal/classify"
	"libris/internal/config"
	"libris/internal/extract"
	"libris/internal/providers"
	"libris/internal/rag"
	"libris/internal/token"
	"libris/internal/util"
	"libris/internal/vector"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load(".env")
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libris",
		Short:         "Ingest e-books and answer questions about them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(ingestCmd(), askCmd(), classifyCmd())
	return root
}

func ingestCmd() *cobra.Command {
	var bookID string
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Index a PDF or EPUB for question answering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if bookID == "" {
				bookID = uuid.NewString()
			}
			p, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			res, err := p.Ingest(cmd.Context(), data, extract.FormatFromPath(args[0]), bookID)
			if err != nil {
				return err
			}
			log.Printf("ingested book %s: %d of %d chunks stored", res.BookID, res.Stored, res.Total)
			fmt.Println(res.BookID)
			return nil
		},
	}
	cmd.Flags().StringVar(&bookID, "book-id", "", "book identifier (random when omitted)")
	return cmd
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <book-id> <question>",
		Short: "Answer a question about an ingested book",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			p, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			answer, err := p.Answer(cmd.Context(), strings.Join(args[1:], " "), args[0])
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}
	return cmd
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Identify title, author, category and language of a book file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			text, err := extract.Text(data, extract.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			pm, err := providers.NewManager(cfg)
			if err != nil {
				return err
			}
			info, err := classify.Book(cmd.Context(), pm.LLM(), util.SanitizeText(text))
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(info, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}

func buildPipeline(cfg config.Config) (*rag.Pipeline, error) {
	codec, err := token.NewCL100K()
	if err != nil {
		return nil, err
	}
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}
	return rag.New(codec, pm.Embedder(), pm.LLM(), store, rag.Options{
		MaxChunkTokens: cfg.MaxChunkTokens,
		TopK:           cfg.TopK,
	}), nil
}

func buildStore(cfg config.Config) (vector.Store, error) {
	switch cfg.VectorBackend {
	case "chromem":
		return vector.NewChromemStore(cfg.VectorDBPath, cfg.CollectionName), nil
	case "pgvector":
		return vector.NewPgvectorStore(cfg.PostgresURL, cfg.EmbedDim), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q (want chromem or pgvector)", cfg.VectorBackend)
	}
}
