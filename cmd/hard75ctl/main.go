package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"hard75/internal/client"
	"hard75/internal/models"
	"hard75/internal/stats"
)

const usage = `Usage: hard75ctl [-url URL] <command> [args]

Commands:
  today                     Show today's checklist
  toggle <task> <on|off>    Toggle a task on today's log
  photo <file>              Upload the daily progress photo
  complete                  Complete the current day
  reset                     Restart the challenge at day 1
  history [YYYY-MM]         Render the calendar for a month
  stats                     Show streak and success rate
  quote                     Print a motivational quote
`

func main() {
	var url string
	var apiKey string
	flag.StringVar(&url, "url", "", "Tracker service URL (default $HARD75_URL or localhost:8080)")
	flag.StringVar(&apiKey, "api-key", "", "API key (default $HARD75_API_KEY)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	_ = godotenv.Load()
	if url == "" {
		url = os.Getenv("HARD75_URL")
	}
	if url == "" {
		url = "localhost:8080"
	}
	if apiKey == "" {
		apiKey = os.Getenv("HARD75_API_KEY")
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(url, apiKey)

	var err error
	switch args[0] {
	case "today":
		err = showToday(c)
	case "toggle":
		err = toggleTask(c, args[1:])
	case "photo":
		err = uploadPhoto(c, args[1:])
	case "complete":
		err = completeDay(c)
	case "reset":
		err = resetChallenge(c)
	case "history":
		err = showHistory(c, args[1:])
	case "stats":
		err = showStats(c)
	case "quote":
		err = showQuote(c)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Command failed", "error", err)
	}
}

func showToday(c *client.Client) error {
	today, err := c.Today()
	if err != nil {
		return err
	}

	defs, err := c.TaskDefinitions()
	if err != nil {
		return err
	}

	fmt.Printf("Day %d — %s\n\n", today.DayNumber, today.Date)
	for _, def := range defs {
		if !def.Active {
			continue
		}
		fmt.Printf("  %s %s\n", checkbox(today.Tasks[def.TaskID]), def.Label)
	}
	fmt.Printf("  %s Progress photo\n", checkbox(today.Tasks[models.PhotoLoggedTask]))

	if today.IsCompleted {
		fmt.Println("\nDay completed.")
	}
	return nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func toggleTask(c *client.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: toggle <task> <on|off>")
	}
	completed := args[1] == "on" || args[1] == "true"

	// Seed the optimistic cache so a failed write has a value to revert to.
	if _, err := c.Today(); err != nil {
		return err
	}
	if err := c.SetTask(args[0], completed); err != nil {
		return err
	}

	fmt.Printf("%s -> %s\n", args[0], checkbox(completed))
	return nil
}

func uploadPhoto(c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: photo <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	if err := c.UploadPhoto(base64.StdEncoding.EncodeToString(data)); err != nil {
		return err
	}
	fmt.Println("Photo saved.")
	return nil
}

func completeDay(c *client.Client) error {
	resp, err := c.CompleteDay()
	if err != nil {
		return err
	}
	if resp.Status == "already_completed" {
		fmt.Println("Today was already completed.")
		return nil
	}
	fmt.Printf("Day completed. Tomorrow is day %d.\n", resp.NextDay)
	return nil
}

func resetChallenge(c *client.Client) error {
	resp, err := c.Reset()
	if err != nil {
		return err
	}
	fmt.Printf("Challenge reset. Back to day %d.\n", resp.CurrentDay)
	return nil
}

var statusGlyphs = map[stats.DayStatus]string{
	stats.StatusFuture:  " . ",
	stats.StatusSuccess: " # ",
	stats.StatusPending: " ? ",
	stats.StatusFailed:  " x ",
}

// showHistory renders the month grid in the terminal, deriving each day's
// status client-side from the fetched history.
func showHistory(c *client.Client, args []string) error {
	anchor := time.Now()
	if len(args) == 1 {
		parsed, err := time.ParseInLocation("2006-01", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", args[0])
		}
		anchor = parsed
	}

	logs, err := c.History()
	if err != nil {
		return err
	}

	byDate := stats.ByDate(logs)
	today := time.Now()

	fmt.Printf("%s\n", anchor.Format("January 2006"))
	fmt.Println(" Mo  Tu  We  Th  Fr  Sa  Su")
	grid := stats.MonthGrid(anchor)
	for i, d := range grid {
		if d.Month() != anchor.Month() {
			fmt.Print("    ")
		} else {
			fmt.Printf(" %s", statusGlyphs[stats.ClassifyDay(d, byDate, today)])
		}
		if (i+1)%7 == 0 {
			fmt.Println()
		}
	}
	fmt.Println("\n #  done   ?  today   x  missed")

	fmt.Printf("Current streak: %d\n", stats.Streak(logs, today))
	return nil
}

func showStats(c *client.Client) error {
	o, err := c.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Day %d of 75 (started %s)\n", o.CurrentDay, o.StartDate)
	fmt.Printf("Wins:         %d of %d logged days\n", o.TotalWins, o.TotalLogged)
	fmt.Printf("Success rate: %s%%\n", strconv.Itoa(o.SuccessRate))
	fmt.Printf("Streak:       %d days\n", o.CurrentStreak)
	return nil
}

func showQuote(c *client.Client) error {
	quote, err := c.Quote()
	if err != nil {
		return err
	}
	fmt.Println(quote)
	return nil
}
