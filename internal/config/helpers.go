package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func getEnvOrPanic(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("[CONFIG] %s not set", key))
	}
	return val
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func getEnvInt(key string, defaultValue int) int {
	valueString := os.Getenv(key)
	if valueString == "" {
		fmt.Fprintf(os.Stdout, "[CONFIG] %s not set, using default: %d\n", key, defaultValue)
		return defaultValue
	}

	value, err := strconv.Atoi(valueString)
	if err != nil {
		fmt.Fprintf(os.Stdout, "[CONFIG] %s: %s invalid, using default: %v\n", key, valueString, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueString := os.Getenv(key)
	if valueString == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueString)
	if err != nil {
		fmt.Fprintf(os.Stdout, "[CONFIG] %s: %s invalid, using default: %v\n", key, valueString, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueString := os.Getenv(key)
	if valueString == "" {
		fmt.Fprintf(os.Stdout, "[CONFIG] %s not set, using default: %s\n", key, defaultValue)
		return defaultValue
	}

	value, err := time.ParseDuration(valueString)
	if err != nil {
		fmt.Fprintf(os.Stdout, "[CONFIG] %s: %s invalid, using default: %v\n", key, valueString, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvList parses a comma-separated value, trimming whitespace around
// each element. Empty elements are dropped.
func getEnvList(key string, defaultValue []string) []string {
	valueString := os.Getenv(key)
	if valueString == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueString, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		return defaultValue
	}

	return values
}

var KEY_LENGTH uint32

func getEnvSecretKey(key string) []byte {
	valueString := os.Getenv(key)
	if valueString == "" {
		panic(fmt.Sprintf("[CONFIG] %s not set", key))
	}

	decoded, err := hex.DecodeString(valueString)
	if err != nil {
		panic(fmt.Sprintf("[CONFIG] decode error: %v", err))
	}

	if len(decoded) != int(KEY_LENGTH) {
		panic(fmt.Sprintf("[CONFIG] %s length is %d bytes; want %d bytes", key, len(decoded), int(KEY_LENGTH)))
	}

	return decoded
}

type uint interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func getEnvUint[T uint](key string) T {
	valueString, ok := os.LookupEnv(key)
	if !ok {
		panic(fmt.Sprintf("[CONFIG] %s not set", key))
	}

	var bitSize int
	switch any(*new(T)).(type) {
	case uint8:
		bitSize = 8
	case uint16:
		bitSize = 16
	case uint32:
		bitSize = 32
	case uint64:
		bitSize = 64
	default:
		panic(fmt.Sprintf("[CONFIG] Unsupported type as generic: %v", *new(T)))
	}

	value, err := strconv.ParseUint(valueString, 10, bitSize)
	if err != nil {
		panic(fmt.Sprintf("[CONFIG] Failed to parse: %s", valueString))
	}

	return T(value)
}
