package warp_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWarp(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Warp Suite")
}
