package archive

import (
	"database/sql"
	"fmt"
	"log"
	"os"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching.
func RunMigrateCommand(args []string, dbPath string) {
	if len(args) < 1 {
		PrintMigrateHelp()
		os.Exit(1)
	}

	action := args[0]

	// Open the database without running migrations; the subcommands
	// manage the schema themselves.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to archive database: %v", err)
	}
	defer db.Close()
	store := NewStore(db)

	switch action {
	case "up":
		log.Printf("Running migrations...")
		if err := store.MigrateUp(); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("✓ All migrations applied successfully")
		printVersion(store)

	case "down":
		log.Printf("Rolling back one migration...")
		if err := store.MigrateDown(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("✓ Migration rolled back successfully")
		printVersion(store)

	case "status":
		version, dirty, err := store.MigrateVersion()
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		fmt.Println("=== Migration Status ===")
		fmt.Printf("Current version: %d\n", version)
		fmt.Printf("Dirty: %v\n", dirty)
		if dirty {
			fmt.Println("\n⚠️  WARNING: Database is in a dirty state!")
			fmt.Println("A migration failed mid-execution. Inspect the database,")
			fmt.Println("fix any issues, then run: photometry-report -archive <path> -migrate force <version>")
		}

	case "version":
		if len(args) < 2 {
			log.Fatal("Usage: photometry-report -archive <path> -migrate version <version_number>")
		}
		var target uint
		if _, err := fmt.Sscanf(args[1], "%d", &target); err != nil {
			log.Fatalf("Invalid version number: %s", args[1])
		}
		log.Printf("Migrating to version %d...", target)
		if err := store.MigrateTo(target); err != nil {
			log.Fatalf("Migration to version %d failed: %v", target, err)
		}
		log.Printf("✓ Migrated to version %d successfully", target)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: photometry-report -archive <path> -migrate force <version_number>")
		}
		var force int
		if _, err := fmt.Sscanf(args[1], "%d", &force); err != nil {
			log.Fatalf("Invalid version number: %s", args[1])
		}
		if err := store.MigrateForce(force); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		log.Printf("✓ Migration version forced to %d", force)

	case "help":
		PrintMigrateHelp()

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp()
		os.Exit(1)
	}
}

func printVersion(store *Store) {
	version, dirty, _ := store.MigrateVersion()
	log.Printf("Current version: %d (dirty: %v)", version, dirty)
}

// PrintMigrateHelp displays the help message for the migrate command.
func PrintMigrateHelp() {
	fmt.Println("Archive Migration Commands")
	fmt.Println()
	fmt.Println("Usage: photometry-report -archive <path> -migrate <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up              Apply all pending migrations")
	fmt.Println("  down            Rollback one migration")
	fmt.Println("  status          Show current migration status and version")
	fmt.Println("  version <N>     Migrate to specific version N")
	fmt.Println("  force <N>       Force migration version to N (recovery only)")
	fmt.Println("  help            Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  photometry-report -archive runs.db -migrate up")
	fmt.Println("  photometry-report -archive runs.db -migrate status")
	fmt.Println("  photometry-report -archive runs.db -migrate force 1")
}
