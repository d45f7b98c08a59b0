package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/modern-go/gls"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/reacharm/observer"
	"github.com/reacharm/observer/utils"
	"github.com/reacharm/observer/xmetrics"
)

var (
	listen   string
	interval time.Duration
)

func init() {
	flag.StringVar(&listen, "listen", "127.0.0.1:9191", "prometheus metrics listen address")
	flag.DurationVar(&interval, "notify_interval", time.Second, "delay between demo notifications")
	flag.Parse()

	utils.InitLog()
}

type printObserver struct {
	observer.Base[string]
	name string
}

func (o *printObserver) Update(msg string) {
	log.Infof("%s received: %s", o.name, msg)
}

func promHttp() {
	http.Handle("/metrics", promhttp.Handler())
	log.Fatal(http.ListenAndServe(listen, nil))
}

func main() {
	if err := xmetrics.InitGlobal("observer_demo"); err != nil {
		log.Fatalf("init metrics error: %+v", err)
	}
	go promHttp()

	registry := observer.NewRegistry[string]()
	for _, name := range []string{"heartbeat", "telemetry"} {
		subject := registry.GetOrCreate(name)
		subject.Attach(&printObserver{name: name + "-printer"})

		go produce(name, subject)
	}

	log.Infof("demo producing on subjects %v, metrics at http://%s/metrics", registry.Names(), listen)
	select {}
}

func produce(name string, subject *observer.Subject[string]) {
	gls.ResetGls(gls.GoID(), map[interface{}]interface{}{})
	gls.Set("subject", name)

	for i := 0; ; i++ {
		subject.Notify(fmt.Sprintf("%s event %d", name, i))
		time.Sleep(interval)
	}
}
