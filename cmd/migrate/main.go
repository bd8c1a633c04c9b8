package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/muhammedkh45/Echoo/config"
	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/services"
	"github.com/muhammedkh45/Echoo/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const usage = `
Echoo - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Create the chat and revoked token indexes
  status      Show database connection status
  seed-dev    Insert two befriended users and print a token for each
  truncate    Delete every chat (DANGEROUS)

Flags:
  -token-ttl duration  Lifetime of tokens printed by seed-dev (default 24h)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev -token-ttl 1h
`

func main() {
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of tokens printed by seed-dev")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close(context.Background())

	switch command {
	case "up":
		runUp(ctx, db)
	case "status":
		showStatus(ctx, db)
	case "seed-dev":
		runSeedDevelopment(ctx, db, []byte(cfg.Auth.UserSignature), *tokenTTL)
	case "truncate":
		runTruncate(ctx, db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runUp(ctx context.Context, db *database.Mongo) {
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Indexes are up to date")
}

func showStatus(ctx context.Context, db *database.Mongo) {
	if err := db.HealthCheck(ctx); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}
	fmt.Printf("Connected to database %q\n", db.DB.Name())

	for _, name := range []string{database.ChatsCollection, database.UsersCollection, database.RevokedTokenCollection} {
		n, err := db.DB.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			fmt.Printf("  %-14s error: %v\n", name, err)
			continue
		}
		fmt.Printf("  %-14s %d documents\n", name, n)
	}
}

func runSeedDevelopment(ctx context.Context, db *database.Mongo, key []byte, ttl time.Duration) {
	now := time.Now()
	aliceID, bobID := primitive.NewObjectID(), primitive.NewObjectID()
	seeded := []user.User{
		{ID: aliceID, FirstName: "Alice", LastName: "Dev", Email: fmt.Sprintf("alice+%s@echoo.local", aliceID.Hex()[18:]),
			Role: user.RoleUser, Friends: []primitive.ObjectID{bobID}, IsVerified: true, CreatedAt: now, UpdatedAt: now},
		{ID: bobID, FirstName: "Bob", LastName: "Dev", Email: fmt.Sprintf("bob+%s@echoo.local", bobID.Hex()[18:]),
			Role: user.RoleUser, Friends: []primitive.ObjectID{aliceID}, IsVerified: true, CreatedAt: now, UpdatedAt: now},
	}

	docs := make([]interface{}, 0, len(seeded))
	for _, u := range seeded {
		docs = append(docs, u)
	}
	if _, err := db.DB.Collection(database.UsersCollection).InsertMany(ctx, docs); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	for _, u := range seeded {
		token, err := services.IssueAccessToken(key, u, ttl)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Printf("%s (%s)\n  Authorization: Bearer %s\n", u.UserName(), u.ID.Hex(), token)
	}
}

func runTruncate(ctx context.Context, db *database.Mongo) {
	res, err := db.DB.Collection(database.ChatsCollection).DeleteMany(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Truncate failed: %v", err)
	}
	fmt.Printf("Deleted %d chats\n", res.DeletedCount)
}
