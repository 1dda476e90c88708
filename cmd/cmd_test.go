package cmd_test

import (
	"bytes"
	"context"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"strconv"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/luma/meteo/cmd"
	"github.com/luma/meteo/protocol"
	"github.com/luma/meteo/transport"
	"github.com/luma/meteo/weather"
)

type constantSource float32

func (c constantSource) Read(q protocol.QueryType, city string) float32 {
	return float32(c)
}

func run(args ...string) (string, error) {
	var out bytes.Buffer

	cmd.RootCmd.SetOut(&out)
	cmd.RootCmd.SetErr(&out)
	cmd.RootCmd.SetArgs(args)

	err := cmd.RootCmd.Execute()
	return out.String(), err
}

var _ = Describe("meteo", func() {
	Describe("version", func() {
		It("prints the build info", func() {
			out, err := run("version")
			Expect(err).To(Succeed())
			Expect(out).To(HavePrefix("meteo dev "))
		})
	})

	Describe("gen man", func() {
		It("writes a page per command", func() {
			dir, err := ioutil.TempDir("", "meteo-man")
			Expect(err).To(Succeed())
			defer os.RemoveAll(dir)

			_, err = run("gen", "man", "--dir", dir)
			Expect(err).To(Succeed())

			Expect(filepath.Join(dir, "meteo.1")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "meteo-serve.1")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "meteo-query.1")).To(BeAnExistingFile())
		})
	})

	Describe("query", func() {
		var (
			udp  *transport.UDP
			port string
		)

		BeforeEach(func() {
			udp = transport.NewUDP(transport.Options{
				Host:       "127.0.0.1",
				Port:       0,
				Dispatcher: weather.NewDispatcher(weather.NewCitySet(weather.DefaultCities...), constantSource(18.5)),
				Log:        zap.NewNop(),
			})
			Expect(udp.Start(context.Background())).To(Succeed())

			port = strconv.Itoa(udp.Addr().(*net.UDPAddr).Port)
		})

		AfterEach(func() {
			Expect(udp.Close()).To(Succeed())
		})

		It("prints the reading", func() {
			out, err := run("query", "-s", "127.0.0.1", "-p", port, "-r", "t roma")
			Expect(err).To(Succeed())
			Expect(out).To(MatchRegexp(`^Ricevuto risultato dal server \S+ \(ip 127\.0\.0\.1\)\. Roma: Temperatura = 18\.5°C\n$`))
		})

		It("prints protocol errors as outcomes", func() {
			out, err := run("query", "-s", "127.0.0.1", "-p", port, "-r", "t atlantide")
			Expect(err).To(Succeed())
			Expect(out).To(HaveSuffix("Città non disponibile\n"))

			out, err = run("query", "-s", "127.0.0.1", "-p", port, "-r", "x roma")
			Expect(err).To(Succeed())
			Expect(out).To(HaveSuffix("Richiesta non valida\n"))
		})

		It("rejects malformed requests before sending", func() {
			_, err := run("query", "-s", "127.0.0.1", "-p", port, "-r", "troma")
			Expect(err).To(HaveOccurred())
		})
	})
})
