// Command prospect-setup initializes the Prospect database: it applies the
// schema, reports whether vector search is available, and can load a small
// demo dataset for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/scrypster/prospect/internal/config"
	"github.com/scrypster/prospect/internal/llm"
	"github.com/scrypster/prospect/internal/storage/postgres"
	"github.com/scrypster/prospect/internal/storage/sqlite"
	"github.com/scrypster/prospect/pkg/types"
)

func main() {
	seedDemo := flag.Bool("seed-demo", false, "load a small demo dataset after setup")
	caseSessionID := flag.String("case-session", "demo-session", "case session id for the demo dataset")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch cfg.Storage.Engine {
	case "sqlite":
		store, err := sqlite.NewStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize sqlite storage: %v", err)
		}
		defer store.Close()
		fmt.Printf("SQLite database ready at %s\n", cfg.Storage.SQLitePath)
		fmt.Println("Vector search: exact in-process scan")
		if *seedDemo {
			if err := seed(ctx, cfg, store, *caseSessionID); err != nil {
				log.Fatalf("Failed to seed demo data: %v", err)
			}
		}
	default:
		store, err := postgres.NewStore(cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to initialize postgres storage: %v", err)
		}
		defer store.Close()
		fmt.Println("Postgres schema applied")
		if store.PgvectorAvailable() {
			fmt.Println("Vector search: pgvector extension active")
		} else {
			fmt.Println("Vector search: UNAVAILABLE (install the pgvector extension and re-run)")
		}
		if *seedDemo {
			if err := seed(ctx, cfg, store, *caseSessionID); err != nil {
				log.Fatalf("Failed to seed demo data: %v", err)
			}
		}
	}
}

// loader is the write surface both backends expose for setup.
type loader interface {
	InsertCanonicalEntity(ctx context.Context, e types.CanonicalEntity) error
	InsertPerson(ctx context.Context, p types.Person) error
	InsertEvidence(ctx context.Context, id string, ev types.Evidence) error
	InsertDatapoint(ctx context.Context, personID string, dp types.Datapoint) error
	InsertProfileDocument(ctx context.Context, id, personID string, platform types.Platform, structuredData []byte, confidence float64) error
}

// seed loads a handful of canonical entities, persons, and evidence rows so
// a fresh install has something to discover. Embeddings come from the
// configured provider; seeding fails cleanly when it is unreachable.
func seed(ctx context.Context, cfg *config.Config, store loader, caseSessionID string) error {
	embedder, err := llm.NewEmbeddingGenerator(cfg.LLM)
	if err != nil {
		return err
	}
	orgID := cfg.Discovery.DefaultOrganizationID

	entityNames := map[string]struct {
		name string
		typ  types.EntityType
	}{
		"occ-cto":     {"chief technology officer", types.EntityOccupation},
		"occ-founder": {"startup founder", types.EntityOccupation},
		"uni-umich":   {"University of Michigan", types.EntityUniversity},
		"loc-detroit": {"Detroit, Michigan", types.EntityLocation},
		"int-climb":   {"rock climbing", types.EntityInterestSubcategory},
	}

	names := make([]string, 0, len(entityNames))
	ids := make([]string, 0, len(entityNames))
	for id, e := range entityNames {
		ids = append(ids, id)
		names = append(names, e.name)
	}
	vectors, err := embedder.EmbedBatch(ctx, names)
	if err != nil {
		return fmt.Errorf("embed seed entities: %w", err)
	}
	for i, id := range ids {
		e := entityNames[id]
		if err := store.InsertCanonicalEntity(ctx, types.CanonicalEntity{
			ID: id, Name: e.name, Type: e.typ, Embedding: vectors[i],
		}); err != nil {
			return err
		}
	}

	type seedPerson struct {
		person   types.Person
		evidence []types.Evidence
	}
	people := []seedPerson{
		{
			person: types.Person{
				ID: uuid.NewString(), FirstName: "Maya", LastName: "Okafor",
				Occupation: "CTO", CaseSessionID: caseSessionID, OrganizationID: orgID,
			},
			evidence: []types.Evidence{
				{EntityType: types.EntityOccupation, EntityValue: "CTO", CanonicalEntityID: "occ-cto",
					Confidence: 0.92, SourceURL: "https://linkedin.com/in/maya-okafor", SourceName: cfg.Discovery.LinkedInSourceName},
				{EntityType: types.EntityUniversity, EntityValue: "University of Michigan", CanonicalEntityID: "uni-umich", Confidence: 0.85},
			},
		},
		{
			person: types.Person{
				ID: uuid.NewString(), FirstName: "Daniel", LastName: "Reyes",
				Occupation: "Founder", CaseSessionID: caseSessionID, OrganizationID: orgID,
			},
			evidence: []types.Evidence{
				{EntityType: types.EntityOccupation, EntityValue: "founder", CanonicalEntityID: "occ-founder", Confidence: 0.88},
				{EntityType: types.EntityLocation, EntityValue: "Detroit", CanonicalEntityID: "loc-detroit", Confidence: 0.8},
				{EntityType: types.EntityInterestSubcategory, EntityValue: "climbing", CanonicalEntityID: "int-climb", Confidence: 0.6},
			},
		},
	}

	for i, sp := range people {
		if err := store.InsertPerson(ctx, sp.person); err != nil {
			return err
		}
		if i == 0 {
			profile := []byte(`{"profile":{"profile_image_url":"https://example.com/avatars/maya.jpg","headline":"CTO at Demo Startup"}}`)
			if err := store.InsertProfileDocument(ctx, uuid.NewString(), sp.person.ID, types.PlatformLinkedIn, profile, 0.9); err != nil {
				return err
			}
		}
		for _, ev := range sp.evidence {
			ev.PersonID = sp.person.ID
			dp := types.Datapoint{
				ID:    uuid.NewString(),
				URL:   fmt.Sprintf("https://example.com/source/%s", uuid.NewString()[:8]),
				Title: fmt.Sprintf("Evidence for %s", ev.EntityValue),
			}
			if err := store.InsertDatapoint(ctx, sp.person.ID, dp); err != nil {
				return err
			}
			ev.DatapointID = dp.ID
			if err := store.InsertEvidence(ctx, uuid.NewString(), ev); err != nil {
				return err
			}
		}
	}

	fmt.Printf("Seeded %d entities and %d persons into case session %q\n", len(entityNames), len(people), caseSessionID)
	return nil
}
