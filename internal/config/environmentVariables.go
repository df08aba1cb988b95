package config

import (
	"log/slog"
	"time"
)

type ctxKey string

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo

	TRACE_ID_KEY   ctxKey = "traceId"
	SESSION_ID_KEY ctxKey = "sessionId"

	SessionCookieName = "docform_session"
	TraceHeader       = "X-Trace-Id"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 120 * time.Second //uploads wait for the extraction call
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening ports
	ServerListenAddr    = ":8080"
	ExtractorListenAddr = ":3000"

	//extraction api
	DefaultExtractionAPIURL = "http://localhost:3000"
	ExtractionAPITimeout    = 30 * time.Second
	ProcessDocumentPath     = "/api/process-pdf"
	DocumentTypesPath       = "/api/document-types"

	//uploads
	MaxUploadSize       = 32 << 20 //32mb
	AcceptedMIMEType    = "application/pdf"
	TemporaryDataDir    = "temporary_data"
	TemporaryDirPerm    = 0750
	DefaultDocumentType = "invoice"

	//viewer
	ZoomStep     = 0.1
	MinZoomScale = 0.5
	DefaultScale = 1.0

	//scroll sync
	ScrollWriteWait   = 5 * time.Second
	ScrollPongWait    = 60 * time.Second
	ScrollPingPeriod  = (ScrollPongWait * 9) / 10
	ScrollMaxReadSize = 1024

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisSessionStore = 0
	RedisResultCache  = 1

	//redis timeouts
	RedisSessionTTL     = 12 * time.Hour
	RedisResultCacheTTL = 24 * time.Hour

	//llm
	LLMRequestTimeout  = 90 * time.Second
	ModelTemperature   = 0.1
	DefaultOpenAIModel = "gpt-4o"
	DefaultGeminiModel = "gemini-2.5-flash"
	TokenizerModel     = "gpt-4"

	//pdf text extraction
	PageExtractTimeout = 10 * time.Second
)
