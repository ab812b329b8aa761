// Package logging contains helpers to print leveled messages on a standard logger.
package logging

import "log"

// PrintlnInfo prints the given message with the INFO prefix.
func PrintlnInfo(logger *log.Logger, message interface{}) {
	logger.Println("INFO:", message)
}

// PrintlnWarn prints the given message with the WARN prefix.
func PrintlnWarn(logger *log.Logger, message interface{}) {
	logger.Println("WARN:", message)
}

// PrintlnError prints the given message with the ERROR prefix.
func PrintlnError(logger *log.Logger, message interface{}) {
	logger.Println("ERROR:", message)
}
