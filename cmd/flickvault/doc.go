// Command flickvault is the CLI entry point: it serves the HTTP API and
// provides user, import, collection, and configuration utilities.
package main
