package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/config"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/poller"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/registry"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/storage"
)

// Bot represents the Discord bot instance
type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	repo     *storage.Repository
	client   *riot.Client
	registry *registry.Manager
	poller   *poller.Poller
	commands []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	// Initialize storage
	repo, err := storage.NewRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// One Riot client shared by the registry manager and the poller, so
	// the in-flight cap holds process-wide.
	client := riot.NewClient(cfg.RiotAPIKey, riot.Options{
		Region:      cfg.RiotRegion,
		Platform:    cfg.RiotPlatform,
		MaxInFlight: int64(cfg.MaxInFlight),
	})

	// Cleanup and poll cycles take the same lock so roster mutation never
	// races a cursor commit.
	cycleMu := &sync.Mutex{}

	b := &Bot{
		config:   cfg,
		session:  session,
		repo:     repo,
		client:   client,
		registry: registry.New(client, repo, cycleMu),
	}

	sink := &discordSink{bot: b}
	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	b.poller = poller.New(repo, client, sink, interval, cycleMu)

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// Start the match poller
	go b.poller.Start(ctx)

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	// Stop the poller; waits for the in-flight cycle to finish committing
	if b.poller != nil {
		b.poller.Stop()
	}

	// Close storage
	if b.repo != nil {
		b.repo.Close()
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// notifyChannelID resolves the notification channel: the persisted
// /setchannel value wins over the configured default.
func (b *Bot) notifyChannelID() (string, error) {
	channelID, err := b.repo.GetSetting("notify_channel_id")
	if err != nil {
		return "", err
	}
	if channelID == "" {
		channelID = b.config.NotifyChannelID
	}
	if channelID == "" {
		return "", fmt.Errorf("no notification channel configured")
	}
	return channelID, nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case "track":
		b.handleTrack(s, i)
	case "untrack":
		b.handleUntrack(s, i)
	case "tracked":
		b.handleTracked(s, i)
	case "trackmulti":
		b.handleTrackMulti(s, i)
	case "cleanup":
		b.handleCleanup(s, i)
	case "setchannel":
		b.handleSetChannel(s, i)
	case "rank":
		b.handleRank(s, i)
	case "mastery":
		b.handleMastery(s, i)
	case "livegame":
		b.handleLiveGame(s, i)
	case "kda":
		b.handleKDA(s, i)
	case "history":
		b.handleHistory(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}
