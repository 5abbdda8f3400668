package main

import (
	"github.com/collectd-shrimp/cmd/agent"
)

func main() {
	agent.Execute()
}
