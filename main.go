package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"newsbrief/chunking"
	"newsbrief/config"
	"newsbrief/delivery"
	"newsbrief/embeddings"
	"newsbrief/llm"
	"newsbrief/newsletter"
	"newsbrief/retrieval"
	"newsbrief/vectorstore"
	"newsbrief/youtube"
)

const indexBatchSize = 10

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "fetch":
		fetchCmd(cfg, logger, os.Args[2:])
	case "index":
		indexCmd(cfg, logger, os.Args[2:])
	case "search":
		searchCmd(cfg, logger, os.Args[2:])
	case "generate":
		generateCmd(cfg, logger, os.Args[2:])
	case "reset":
		resetCmd(cfg, logger, os.Args[2:])
	default:
		logger.Printf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func fetchCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("fetch", flag.ExitOnError)
	channelList := flags.String("channels", strings.Join(cfg.Channels, ","), "comma-separated channel names or @handles")
	outFile := flags.String("out", cfg.VideoFile, "path for the raw video record file")
	perChannel := flags.Int("per-channel", 5, "maximum videos to process per channel")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse fetch flags: %v", err)
	}

	channels := splitChannels(*channelList)
	if len(channels) == 0 {
		logger.Fatalf("no channels configured: pass --channels or set NEWS_CHANNELS")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	catalog, err := youtube.NewCatalog(ctx, cfg.YouTubeAPIKey, logger)
	if err != nil {
		logger.Fatalf("youtube setup: %v", err)
	}
	transcripts := youtube.NewTranscriptClient()

	records := make([]youtube.VideoRecord, 0)
	for _, channel := range channels {
		logger.Printf("processing channel: %s", channel)

		videos, err := catalog.VideosFromYesterday(ctx, channel)
		if err != nil {
			logger.Printf("channel %s failed: %v", channel, err)
			continue
		}

		if len(videos) > *perChannel {
			videos = videos[:*perChannel]
		}

		for _, video := range videos {
			logger.Printf("processing video: %s", video.Title)

			snippets, info, err := transcripts.Fetch(ctx, video.VideoID)
			if err != nil {
				logger.Printf("transcript fetch failed for %s: %v", video.VideoID, err)
			}

			records = append(records, youtube.VideoRecord{
				Channel:            channel,
				VideoTitle:         video.Title,
				VideoURL:           video.URL,
				VideoID:            video.VideoID,
				PublishedAt:        video.PublishedAt,
				Transcript:         snippets,
				TranscriptMetadata: info,
			})

			// Save after every video so an interrupted run keeps its progress.
			if err := youtube.SaveRecords(records, *outFile); err != nil {
				logger.Fatalf("save video records: %v", err)
			}
			logger.Printf("saved progress (%d videos so far) to %s", len(records), *outFile)
		}
	}

	withTranscripts := 0
	for _, record := range records {
		if record.Transcript != nil {
			withTranscripts++
		}
	}
	logger.Printf("job complete: %d videos processed, %d with transcripts", len(records), withTranscripts)
}

func indexCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("index", flag.ExitOnError)
	inFile := flags.String("in", cfg.VideoFile, "path to the raw video record file")
	chunkFile := flags.String("chunks", cfg.ChunkFile, "path for the chunk record JSONL file")
	window := flags.Float64("window", cfg.WindowSeconds, "chunk window width in seconds")
	fromChunks := flags.Bool("from-chunks", false, "skip chunking and index an existing chunk file")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse index flags: %v", err)
	}
	if *window <= 0 {
		logger.Fatalf("window must be positive, got %v", *window)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var chunkRecords []chunking.ChunkRecord
	if *fromChunks {
		var err error
		chunkRecords, err = chunking.ReadJSONLFile(*chunkFile)
		if err != nil {
			logger.Fatalf("load chunk records: %v", err)
		}
		logger.Printf("loaded %d chunk records from %s", len(chunkRecords), *chunkFile)
	} else {
		videoRecords, err := youtube.LoadRecords(*inFile)
		if err != nil {
			logger.Fatalf("load video records: %v", err)
		}

		for _, record := range videoRecords {
			if record.Transcript == nil {
				continue
			}
			chunks := chunking.ChunkByWindow(record.Transcript, *window)
			video := youtube.Video{
				VideoID:     record.VideoID,
				Title:       record.VideoTitle,
				URL:         record.VideoURL,
				PublishedAt: record.PublishedAt,
			}
			chunkRecords = append(chunkRecords, chunking.BuildRecords(chunks, video, record.Channel, record.TranscriptMetadata)...)
		}

		if err := chunking.WriteJSONLFile(*chunkFile, chunkRecords); err != nil {
			logger.Fatalf("write chunk records: %v", err)
		}
		logger.Printf("wrote %d chunk records to %s", len(chunkRecords), *chunkFile)
	}

	if len(chunkRecords) == 0 {
		logger.Println("nothing to index")
		return
	}

	pool, err := vectorstore.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	store := vectorstore.NewPostgresStore(pool, cfg.EmbeddingDimension)
	if err := store.Recreate(ctx); err != nil {
		logger.Fatalf("recreate collection: %v", err)
	}

	for start := 0; start < len(chunkRecords); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(chunkRecords) {
			end = len(chunkRecords)
		}
		batch := chunkRecords[start:end]

		ids := make([]string, len(batch))
		documents := make([]string, len(batch))
		metadatas := make([]vectorstore.Metadata, len(batch))
		for i, record := range batch {
			ids[i] = record.DocumentID()
			documents[i] = record.Text
			metadatas[i] = vectorstore.Metadata{
				Channel:            record.Channel,
				VideoTitle:         record.VideoTitle,
				VideoURL:           record.VideoURL,
				VideoID:            record.VideoID,
				PublishedAt:        record.PublishedAt,
				ChunkStartTime:     record.ChunkStartTime,
				ChunkEndTime:       record.ChunkEndTime,
				VideoPublishedDate: record.VideoPublishedDate,
			}
		}

		vectors, err := embedder.Embed(ctx, documents)
		if err != nil {
			logger.Fatalf("embed batch at %d: %v", start, err)
		}
		if len(vectors) != len(batch) {
			logger.Fatalf("embedding count mismatch: have %d documents, %d vectors", len(batch), len(vectors))
		}

		if err := store.Add(ctx, ids, vectors, documents, metadatas); err != nil {
			logger.Fatalf("add batch at %d: %v", start, err)
		}
		logger.Printf("indexed %d/%d chunks", end, len(chunkRecords))
	}

	logger.Printf("successfully indexed %d chunks", len(chunkRecords))
}

func searchCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	limit := flags.Int("limit", 5, "maximum results to print")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse search flags: %v", err)
	}

	query := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if query == "" {
		logger.Fatalf("usage: newsbrief search <query>")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := vectorstore.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	store := vectorstore.NewPostgresStore(pool, cfg.EmbeddingDimension)
	if err := store.Ready(ctx); err != nil {
		logger.Fatalf("%v", err)
	}

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	vectors, err := embedder.Embed(ctx, []string{query})
	if err != nil {
		logger.Fatalf("embed query: %v", err)
	}

	hits, err := store.Query(ctx, vectors[0], *limit)
	if err != nil {
		logger.Fatalf("query: %v", err)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("Search results for %q (%d hits)\n\n", query, len(hits))
	for i, hit := range hits {
		meta := hit.Metadata
		fmt.Printf("Result #%d (relevance score: %.3f)\n", i+1, 1-hit.Distance)
		fmt.Printf("Video: %s\n", meta.VideoTitle)
		fmt.Printf("Channel: %s\n", meta.Channel)
		fmt.Printf("Time: %gs - %gs\n", meta.ChunkStartTime, meta.ChunkEndTime)
		fmt.Printf("Watch: %s\n", newsletter.TimestampedURL(meta.VideoURL, meta.VideoID, meta.ChunkStartTime))
		fmt.Printf("Published: %s\n", meta.VideoPublishedDate)

		preview := hit.Document
		if len(preview) > 300 {
			preview = preview[:300] + "..."
		}
		fmt.Printf("\nTranscript excerpt:\n%s\n\n", preview)
	}
}

func generateCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("generate", flag.ExitOnError)
	keywordList := flags.String("keywords", "", "comma-separated search keywords")
	language := flags.String("language", "English", "target language for the article")
	perKeyword := flags.Int("per-keyword", 10, "results to fetch per keyword")
	htmlFile := flags.String("html", "newsletter.html", "HTML output path, empty to skip")
	whatsApp := flags.Bool("whatsapp", false, "send the article over WhatsApp")
	recipient := flags.String("to", cfg.WhatsAppRecipient, "WhatsApp recipient number")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse generate flags: %v", err)
	}

	keywords := splitChannels(*keywordList)
	if len(keywords) == 0 {
		logger.Fatalf("at least one keyword is required: pass --keywords")
	}
	if *whatsApp && strings.TrimSpace(*recipient) == "" {
		logger.Fatalf("WhatsApp output requires a recipient: pass --to or set WHATSAPP_RECIPIENT")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := vectorstore.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	store := vectorstore.NewPostgresStore(pool, cfg.EmbeddingDimension)
	if err := store.Ready(ctx); err != nil {
		// Missing collection is a precondition failure, not "no results".
		logger.Fatalf("%v", err)
	}

	embedder, err := embeddings.NewEmbedder(cfg)
	if err != nil {
		logger.Fatalf("embedder setup: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		logger.Fatalf("llm setup: %v", err)
	}

	aggregator := retrieval.NewAggregator(embedder, store, logger)
	svc := newsletter.NewService(aggregator, llmClient, logger)

	digest, err := svc.Generate(ctx, keywords, *language, *perKeyword)
	if err != nil {
		logger.Fatalf("generate digest: %v", err)
	}
	if len(digest.Results) == 0 {
		logger.Println("no results found, try different keywords")
		return
	}

	if *htmlFile != "" {
		html, err := svc.HTML(digest)
		if err != nil {
			logger.Fatalf("render html: %v", err)
		}
		if err := os.WriteFile(*htmlFile, []byte(html), 0o644); err != nil {
			logger.Fatalf("write html: %v", err)
		}
		logger.Printf("HTML newsletter saved to %s", *htmlFile)
	}

	if *whatsApp {
		message := svc.WhatsApp(digest)

		sender, err := delivery.NewWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger)
		if err != nil {
			logger.Fatalf("whatsapp setup: %v", err)
		}
		if err := sender.Send(ctx, message, *recipient, nil); err != nil {
			logger.Fatalf("send whatsapp message: %v", err)
		}
		logger.Println("WhatsApp message sent")
	}

	logger.Printf("done: %d clips from %d videos, language %s", len(digest.Results), digest.UniqueVideos(), digest.Language)
}

func resetCmd(cfg config.Config, logger *log.Logger, args []string) {
	flags := flag.NewFlagSet("reset", flag.ExitOnError)
	confirmed := flags.Bool("confirm", false, "skip confirmation prompt")
	if err := flags.Parse(args); err != nil {
		logger.Fatalf("parse reset flags: %v", err)
	}

	if !*confirmed {
		fmt.Print("This will permanently delete the indexed transcript collection. Continue? [y/N]: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logger.Fatalf("read confirmation: %v", err)
			}
			logger.Println("reset aborted")
			return
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			logger.Println("reset aborted")
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := vectorstore.NewPostgresPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatalf("postgres connection: %v", err)
	}
	defer pool.Close()

	store := vectorstore.NewPostgresStore(pool, cfg.EmbeddingDimension)
	if err := store.Ready(ctx); err != nil {
		if errors.Is(err, vectorstore.ErrCollectionMissing) {
			logger.Println("collection does not exist, nothing to reset")
			return
		}
		logger.Fatalf("%v", err)
	}
	if err := store.Drop(ctx); err != nil {
		logger.Fatalf("drop collection: %v", err)
	}
	logger.Println("indexed transcript collection removed")
}

func splitChannels(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func printUsage() {
	fmt.Println("Usage: newsbrief <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  fetch     Fetch yesterday's videos and transcripts for the configured channels")
	fmt.Println("  index     Chunk fetched transcripts and index them in the vector store")
	fmt.Println("  search    Run a single similarity search against the index")
	fmt.Println("  generate  Generate a cited news article from keywords (HTML and/or WhatsApp)")
	fmt.Println("  reset     Remove the indexed transcript collection")
}
