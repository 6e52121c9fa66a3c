// Package config loads qjsup settings from a sandboxed Lua file.
//
// # Overview
//
// The config file (by default ~/.config/qjsup/config.lua) assigns a global
// table named qjsup:
//
//	qjsup = {
//	  home = platform.is_macos and "~/Library/Application Support/Kodi" or "~/.kodi",
//	  base_url = "https://bellard.org/quickjs/binary_releases",
//	  language = "en",
//	  assume_yes = false,
//	  log_level = "info",
//	  timeout = 300,
//	  user_agent = "qjsup/1.0",
//	  verify = { keyring = "~/.config/qjsup/quickjs.asc" },
//	}
//
// Every field is optional; unset fields keep the values from Default. A
// missing file is the same as an empty qjsup table.
//
// # Platform table
//
// A read-only platform table from the platform package is injected before
// the file runs, so one config can serve several machines.
//
// # Sandboxing
//
// User Lua code runs in a restricted VM without:
//   - System command execution (os.execute, os.exit, etc.)
//   - Filesystem access (io.open, io.popen, etc.)
//   - External code loading (require, dofile, loadfile, etc.)
//   - Metatable manipulation (getmetatable, setmetatable, rawget, rawset)
//   - Garbage collection control (collectgarbage)
//
// # Errors
//
// Lua errors are returned as *ParseError. Type and value problems are
// collected with go-multierror so a user sees every bad field at once;
// each entry is a *ValidationError. FormatError renders either kind.
//
// # Usage
//
//	parser := config.NewParser(platform.NewDetector())
//	cfg, err := parser.Load(ctx, path)
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, config.FormatError(err, verbose))
//	    return err
//	}
//	qjs, err := cfg.InstallPath()
//
// Generator writes a Config back out as Lua, which is how `qjsup config
// init` seeds a new file.
package config
