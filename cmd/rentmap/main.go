// Command rentmap is a terminal client for the rental backend, driving the
// same engine the gateway serves: session lifecycle, listing search, the
// grouped map view and reservations.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"rentmap/internal/config"
	"rentmap/internal/geocode"
	"rentmap/internal/live"
	"rentmap/internal/models"
	"rentmap/internal/repository"
	"rentmap/internal/service"
	"rentmap/internal/session"
	"rentmap/internal/upstream"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cmd := flag.String("cmd", "status", "one of: status, login, register, logout, listings, map, reservations, watch")
	email := flag.String("email", "", "account email for login/register")
	password := flag.String("password", "", "account password for login/register")
	name := flag.String("name", "", "display name for register")
	query := flag.String("q", "", "search filter for listings")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := upstream.NewClient(cfg.APIBaseURL)
	sessions := session.NewManager(session.NewAPIClient(cfg.APIBaseURL), repository.NewFileStore(cfg.SessionFile))

	switch *cmd {
	case "status":
		printStatus(sessions.CheckStatus(ctx))

	case "login":
		if *email == "" || *password == "" {
			fmt.Println("Error: --email and --password are required")
			os.Exit(1)
		}
		status, err := sessions.Login(ctx, session.Credentials{Email: *email, Password: *password})
		if err != nil {
			log.Fatal().Err(err).Msg("login failed")
		}
		printStatus(status)

	case "register":
		if *name == "" || *email == "" || *password == "" {
			fmt.Println("Error: --name, --email and --password are required")
			os.Exit(1)
		}
		status, err := sessions.Register(ctx, session.Registration{Name: *name, Email: *email, Password: *password})
		if err != nil {
			log.Fatal().Err(err).Msg("registration failed")
		}
		printStatus(status)

	case "logout":
		if err := sessions.Logout(ctx); err != nil {
			log.Fatal().Err(err).Msg("logout failed")
		}
		fmt.Println("Logged out")

	case "listings":
		listings, err := service.NewListingService(api).Search(ctx, *query)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load listings")
		}
		for _, l := range listings {
			fmt.Printf("#%d  %s — %s — %.2f €/night\n", l.ID, l.Title, l.Location, l.PricePerNight)
		}
		fmt.Printf("%d listing(s)\n", len(listings))

	case "map":
		runMap(ctx, cfg, api)

	case "watch":
		if cfg.LiveFeedURL == "" {
			fmt.Println("Error: LIVE_FEED_URL is not configured")
			os.Exit(1)
		}
		token, ok := sessions.Token(ctx)
		if !ok {
			fmt.Println("Error: log in first")
			os.Exit(1)
		}
		if err := runWatch(ctx, cfg.LiveFeedURL, token, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("live feed failed")
		}

	case "reservations":
		buckets, err := service.NewReservationService(api).Overview(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load reservations")
		}
		printReservations("Upcoming", buckets.Upcoming)
		printReservations("In progress", buckets.InProgress)
		printReservations("Past", buckets.Past)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runMap prints markers as they resolve, the same incremental flow the map
// screen renders.
func runMap(ctx context.Context, cfg config.Config, api *upstream.Client) {
	listings, err := api.ListListings(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load listings")
	}

	resolver := geocode.NewClient(cfg.NominatimURL, cfg.UserAgent, geocode.NewCache())
	grouper := service.NewGroupService(api, resolver)

	groups := grouper.BuildGroups(ctx, listings, func(key string, group models.ListingGroup) {
		fmt.Printf("marker %s: %d listing(s)\n", key, len(group.Listings))
	})

	placed := 0
	for _, group := range groups {
		placed += len(group.Listings)
	}
	fmt.Printf("%d of %d listing(s) placed in %d marker(s)\n", placed, len(listings), len(groups))
}

// runWatch streams live messages to out until the context is cancelled or
// the server hangs up.
func runWatch(ctx context.Context, feedURL, token string, out io.Writer) error {
	feed, err := live.Dial(ctx, feedURL, token)
	if err != nil {
		return err
	}
	defer feed.Close()

	sub := feed.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.C:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "[%s] from %d: %s\n", msg.SentAt.Format("15:04"), msg.SenderID, msg.Content)
		}
	}
}

func printStatus(status session.Status) {
	if !status.Authenticated {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("Logged in as %s <%s> (%s)\n", status.User.Name, status.User.Email, status.User.Role)
}

func printReservations(title string, reservations []models.Reservation) {
	fmt.Printf("%s (%d)\n", title, len(reservations))
	for _, r := range reservations {
		label := "(listing unavailable)"
		if r.Listing != nil {
			label = r.Listing.Title
		}
		fmt.Printf("  %s → %s  %s  %.2f €\n",
			r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"), label, r.TotalPrice)
	}
}
