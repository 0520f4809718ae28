package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/notion-mcp/internal/client"
	"github.com/bobmcallan/notion-mcp/internal/common"
	mcpgw "github.com/bobmcallan/notion-mcp/internal/mcp"
	"github.com/bobmcallan/notion-mcp/internal/openapi"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "notion-mcp.toml", "Path to config file")
	specFile := flag.String("spec", "", "Path to the OpenAPI document (overrides config)")
	flag.Parse()

	cfg, err := common.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *specFile != "" {
		cfg.API.SpecPath = *specFile
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(cfg.API.SpecPath)
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document %s: %v", cfg.API.SpecPath, err)
	}

	converter := openapi.NewConverter(doc, logger)

	baseURL := cfg.API.BaseURL
	if baseURL == "" {
		baseURL, err = converter.BaseURL()
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
	}

	def, ops, err := converter.Convert(cfg.API.Name)
	if err != nil {
		log.Fatalf("Failed to convert OpenAPI document: %v", err)
	}

	catalog, err := mcpgw.BuildCatalog(def, ops, logger)
	if err != nil {
		log.Fatalf("Failed to build tool catalog: %v", err)
	}
	logger.Info().Int("tools", catalog.Len()).Str("base_url", baseURL).Msg("tool catalog ready")

	apiClient := client.New(baseURL, cfg.API.AuthHeaders(), cfg.API.GetTimeout(), logger)
	dispatcher := mcpgw.NewDispatcher(catalog, apiClient, logger)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	dispatcher.Register(mcpServer)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	log.Printf("Starting MCP Streamable HTTP on :%s", cfg.Server.Port)
	if err := httpServer.Start(":" + cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
