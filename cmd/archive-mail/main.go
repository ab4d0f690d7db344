// archive-mail is the external archive interface for mailing-list delivery
// agents. It reads a raw message on standard input and archives it to the
// named list. The process always exits 0 once arguments parse, so a broken
// message never triggers upstream retry storms; outcomes are logged instead.
package main

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailhoard/mailhoard/internal/config"
	"github.com/mailhoard/mailhoard/internal/database"
	"github.com/mailhoard/mailhoard/internal/logger"
	"github.com/mailhoard/mailhoard/internal/repository"
	"github.com/mailhoard/mailhoard/internal/services"
	"github.com/mailhoard/mailhoard/internal/storage"
)

var (
	publicFlag  bool
	privateFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "archive-mail LISTNAME",
		Short: "Archive an email message read from standard input",
		Long: `archive-mail reads an email message on standard input and saves it in
the archive of the named mailing list. Use --public for a public list or
--private for a private list; the default is public.`,
		Args: cobra.ExactArgs(1),
		Run:  run,
	}

	rootCmd.Flags().BoolVar(&publicFlag, "public", false, "archive message to public archive (default)")
	rootCmd.Flags().BoolVar(&privateFlag, "private", false, "archive message to private archive")
	rootCmd.MarkFlagsMutuallyExclusive("public", "private")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	listName := args[0]

	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		return
	}
	log := logger.Setup(cfg.LogLevel)
	log.Info("called", slog.String("list", listName), slog.Bool("private", privateFlag))

	raw, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		log.Error("error reading standard input", slog.String("error", err.Error()))
		return
	}
	if envelope, _, found := bytes.Cut(raw, []byte("\n")); found || len(envelope) > 0 {
		log.Info("envelope", slog.String("line", string(envelope)))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", slog.String("error", err.Error()))
		return
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("error closing database", slog.String("error", err.Error()))
		}
	}()

	store, err := storage.NewFileStore(cfg.ArchiveRoot)
	if err != nil {
		log.Error("archive store unavailable", slog.String("error", err.Error()))
		return
	}

	lists := repository.NewListRepository(db)
	messages := repository.NewMessageRepository(db)
	threads := repository.NewThreadRepository(db)
	index := services.NewThreadIndex(threads, messages, log)
	archiver := services.NewArchiver(lists, messages, threads, store, index, log)

	message, err := archiver.Archive(cmd.Context(), raw, listName, privateFlag)
	if err != nil {
		log.Error("archive failed", slog.String("list", listName), slog.String("error", err.Error()))
		return
	}
	log.Info("archive succeeded",
		slog.String("list", listName),
		slog.String("msgid", message.MsgID),
		slog.String("hashcode", message.Hashcode))
}
