// Package config holds the assignment definitions tcpgrade scores against and
// the resolution of run-time settings.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--config, --debug, --no-color)
//  2. Environment variables (TCPGRADE_CONFIG, TCPGRADE_DEBUG, TCPGRADE_NO_COLOR, NO_COLOR)
//  3. Built-in defaults (the chiTCP assignments)
//
// # Assignment File
//
// A YAML file passed with --config replaces the built-in assignments:
//
//	assignments:
//	  - name: Assignment 1
//	    points: 50
//	    categories:
//	      - id: conn_init
//	        name: 3-way handshake
//	        points: 20
//
// Category order in the file is the order used for display and for the
// CSV and Gradescope outputs.
//
// # Environment Variables
//
//   - TCPGRADE_CONFIG: path to an assignment file
//   - TCPGRADE_DEBUG: "true" or "1" enables debug logging on stderr
//   - TCPGRADE_NO_COLOR or NO_COLOR: disables styled table output
package config
