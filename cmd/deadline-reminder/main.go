// Command deadline-reminder notifies folder owners about upcoming
// submission deadlines. Run it from cron once or twice a day.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"course-folder-api/config"
	"course-folder-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var (
		lockName string
		window   time.Duration
		dryRun   bool
		mail     bool
	)

	flag.StringVar(&lockName, "lock-name", "deadline_reminder_job", "MySQL advisory lock name (empty to disable)")
	flag.DurationVar(&window, "window", 72*time.Hour, "how far ahead of a due date reminders go out")
	flag.BoolVar(&dryRun, "dry-run", false, "report what would be sent without writing notifications")
	flag.BoolVar(&mail, "mail", false, "also send reminder emails")
	flag.Parse()

	if window <= 0 {
		log.Fatal("window must be positive")
	}

	job := services.NewDeadlineReminderService(nil)
	summary, err := job.RunOnce(context.Background(), &services.DeadlineReminderInput{
		LockName: lockName,
		Window:   window,
		DryRun:   dryRun,
		Mail:     mail,
	})
	if err != nil {
		if errors.Is(err, services.ErrDeadlineReminderAlreadyRunning) {
			log.Fatal("deadline reminder already running (advisory lock held)")
		}
		log.Fatalf("deadline reminder failed: %v", err)
	}

	fmt.Printf("Deadlines checked: %d, folders examined: %d\n", summary.DeadlinesChecked, summary.FoldersExamined)
	fmt.Printf("Reminders sent: %d, already reminded: %d, errors: %d\n",
		summary.RemindersSent,
		summary.AlreadyReminded,
		summary.Errors,
	)

	if dryRun {
		fmt.Println("Dry run complete. No database changes were made.")
	}

	if summary.Errors > 0 {
		os.Exit(2)
	}
}
