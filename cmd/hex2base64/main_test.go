package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kenneth/hex2base64/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, in io.Reader, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if in == nil {
		in = strings.NewReader("")
	}

	cmd := newRootCmd(in, &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_Sample(t *testing.T) {
	out, _, err := runCmd(t, nil)
	require.NoError(t, err)
	assert.Equal(t, "Base64 encoded output: SGVsbG8gV29ybGQ=\n", out)
}

func TestRoot_Args(t *testing.T) {
	out, _, err := runCmd(t, nil, "4C6975626F76", "50617472696363B", "ff")
	require.Error(t, err)
	// The first argument converts before the odd-length one aborts.
	assert.Equal(t, "TGl1Ym92\n", out)

	out, _, err = runCmd(t, nil, "4C6975626F76", "0g", "ffff")
	require.Error(t, err)
	assert.Equal(t, "TGl1Ym92\n", out)

	out, _, err = runCmd(t, nil, "4C6975626F76", "5061747269636B", "ffff")
	require.NoError(t, err)
	assert.Equal(t, "TGl1Ym92\nUGF0cmljaw==\n//8=\n", out)
}

func TestRoot_Stdin(t *testing.T) {
	in := strings.NewReader("ff\n  ffff\t4C6975626F76\n")
	out, _, err := runCmd(t, in, "-")
	require.NoError(t, err)
	assert.Equal(t, "/w==\n//8=\nTGl1Ym92\n", out)
}

func TestRoot_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantMsg string
	}{
		{name: "odd length", arg: "afb", wantMsg: "odd number of bytes"},
		{name: "invalid digit", arg: "zz", wantMsg: "invalid hex digit at offset 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := runCmd(t, nil, tt.arg)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tt.wantMsg)
		})
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runCmd(t, nil, "version")
	require.NoError(t, err)
	assert.Equal(t, "hex2base64 "+version+" ("+commit+")\n", out)
}

func TestServe_InvalidConfig(t *testing.T) {
	t.Setenv("HEX2BASE64_LOG_LEVEL", "loud")

	_, errOut, err := runCmd(t, nil, "serve")
	require.Error(t, err)
	assert.Contains(t, errOut, "logging.level")
}

func TestServe_StartsAndStops(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ListenAddr = "127.0.0.1:0"
	cfg.Logging.Level = "error"

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, serve(ctx, cmd, cfg, ""))
}
