package utils

//run redis
//docker run -p 6379:6379 -d redis

//swagger init for the extraction backend
//swag init -g cmd/extractor/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/extractor/docs
