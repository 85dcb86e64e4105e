// insightd serves the MoneyDesk financial-insight pipeline: aggregates in,
// natural-language analysis out, with AI providers in front of a
// deterministic fallback.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/cache"
	"github.com/Hassaanj79/MoneyDesk.co-sub001/provider"
	"github.com/Hassaanj79/MoneyDesk.co-sub001/server"
	"github.com/Hassaanj79/MoneyDesk.co-sub001/store"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dbPath := os.Getenv("INSIGHT_DB")
	if dbPath == "" {
		dbPath = "insights.db"
	}

	// Cache gate: short TTL, per-process instance.
	gate, err := cache.NewGate()
	if err != nil {
		log.Fatalf("❌ Cache initialization failed: %v", err)
	}
	log.Println("✅ Insight cache initialized (30s TTL)")

	// Provider chain: cheapest first, rule-based synthesis as the floor.
	gemini := provider.NewGemini(os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	openai := provider.NewOpenAI(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))
	claude := provider.NewAnthropic(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_MODEL"))
	chain := provider.NewChain(gemini, openai, claude)

	for _, p := range []provider.Provider{gemini, openai, claude} {
		if p.Available() {
			log.Printf("✅ Provider %s configured", p.Name())
		} else {
			log.Printf("ℹ️ Provider %s not configured (rule-based fallback still guarantees a response)", p.Name())
		}
	}

	// Generation telemetry, best effort.
	events, err := store.NewInsightLog(dbPath)
	if err != nil {
		log.Printf("⚠️ Insight event log unavailable: %v (events will not be recorded)", err)
		events = nil
	} else {
		log.Printf("✅ Insight event log initialized (%s)", dbPath)
	}

	srv := server.New(server.Config{
		Cache:  gate,
		Chain:  chain,
		Events: events,
	})

	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🚀 MoneyDesk Insight Service Running")
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("📡 Insights endpoint: http://localhost:%s/api/insights", port)
	log.Printf("📜 History endpoint:  http://localhost:%s/api/insights/history", port)
	log.Printf("🔌 WebSocket:         ws://localhost:%s/ws", port)
	log.Printf("💚 Health check:      http://localhost:%s/health", port)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if err := srv.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
