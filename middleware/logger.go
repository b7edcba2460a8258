// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	echo "github.com/lunatic-solutions/compass"

	"github.com/labstack/gommon/color"
	"github.com/valyala/fasttemplate"
)

// LoggerConfig defines the config for Logger middleware.
//
// # Available Tags
//
// ## Time Tags
//   - time_unix, time_unix_milli, time_unix_micro, time_unix_nano
//   - time_rfc3339, time_rfc3339_nano
//   - time_custom: uses CustomTimeFormat
//
// ## Request Information
//   - id: value of the X-Request-ID header (set by the RequestID middleware)
//   - remote_ip, uri, host, method, path, route, protocol, referer, user_agent
//
// ## Response Information
//   - status, error, latency, latency_human, bytes_in, bytes_out
//
// ## Dynamic Tags
//   - header:<NAME>, query:<NAME>, form:<NAME>, cookie:<NAME>
//   - custom: output from CustomTagFunc
type LoggerConfig struct {
	// Skipper defines a function to skip middleware.
	Skipper Skipper

	// Format defines the logging format using ${tag} template tags.
	// Default: JSON format with common fields.
	Format string

	// CustomTimeFormat specifies the time format used by the time_custom tag.
	CustomTimeFormat string

	// CustomTagFunc is called when the custom tag is encountered.
	CustomTagFunc func(c *echo.Context, buf *bytes.Buffer) (int, error)

	// Output specifies where logs are written. When nil, each line is logged at Info level
	// through c.Logger().
	Output io.Writer

	template *fasttemplate.Template
	colorer  *color.Color
	pool     *sync.Pool
	timeNow  func() time.Time
}

// DefaultLoggerConfig is the default Logger middleware config.
var DefaultLoggerConfig = LoggerConfig{
	Skipper: DefaultSkipper,
	Format: `{"time":"${time_rfc3339_nano}","id":"${id}","remote_ip":"${remote_ip}",` +
		`"host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}",` +
		`"status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}"` +
		`,"bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	CustomTimeFormat: "2006-01-02 15:04:05.00000",
	colorer:          color.New(),
	timeNow:          time.Now,
}

// Logger returns a middleware that logs HTTP requests in the default JSON format.
func Logger() echo.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig returns a Logger middleware with config. See LoggerConfig.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}
	if config.Format == "" {
		config.Format = DefaultLoggerConfig.Format
	}
	writeString := func(buf *bytes.Buffer, in string) (int, error) { return buf.WriteString(in) }
	if config.Format[0] == '{' { // format looks like JSON, escape invalid characters
		writeString = writeJSONSafeString
	}

	timeNow := DefaultLoggerConfig.timeNow
	if config.timeNow != nil {
		timeNow = config.timeNow
	}

	config.template = fasttemplate.New(config.Format, "${", "}")
	config.colorer = color.New()
	if config.Output != nil {
		config.colorer.SetOutput(config.Output)
	}
	config.pool = &sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 256))
		},
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) (err error) {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res, _ := c.Response().(*echo.Response)
			start := time.Now()
			err = next(c)
			stop := time.Now()
			buf := config.pool.Get().(*bytes.Buffer)
			buf.Reset()
			defer config.pool.Put(buf)

			if _, tplErr := config.template.ExecuteFunc(buf, func(w io.Writer, tag string) (int, error) {
				switch tag {
				case "custom":
					if config.CustomTagFunc == nil {
						return 0, nil
					}
					return config.CustomTagFunc(c, buf)
				case "time_unix":
					return buf.WriteString(strconv.FormatInt(timeNow().Unix(), 10))
				case "time_unix_milli":
					return buf.WriteString(strconv.FormatInt(timeNow().UnixMilli(), 10))
				case "time_unix_micro":
					return buf.WriteString(strconv.FormatInt(timeNow().UnixMicro(), 10))
				case "time_unix_nano":
					return buf.WriteString(strconv.FormatInt(timeNow().UnixNano(), 10))
				case "time_rfc3339":
					return buf.WriteString(timeNow().Format(time.RFC3339))
				case "time_rfc3339_nano":
					return buf.WriteString(timeNow().Format(time.RFC3339Nano))
				case "time_custom":
					return buf.WriteString(timeNow().Format(config.CustomTimeFormat))
				case "id":
					id := req.Header.Get(echo.HeaderXRequestID)
					if id == "" && res != nil {
						id = res.Header().Get(echo.HeaderXRequestID)
					}
					return writeString(buf, id)
				case "remote_ip":
					return writeString(buf, c.RealIP())
				case "host":
					return writeString(buf, req.Host)
				case "uri":
					return writeString(buf, req.RequestURI)
				case "method":
					return writeString(buf, req.Method)
				case "path":
					p := req.URL.Path
					if p == "" {
						p = "/"
					}
					return writeString(buf, p)
				case "route":
					return writeString(buf, c.Path())
				case "protocol":
					return writeString(buf, req.Proto)
				case "referer":
					return writeString(buf, req.Referer())
				case "user_agent":
					return writeString(buf, req.UserAgent())
				case "status":
					n := http.StatusOK
					if res != nil {
						n = res.Status
					}
					s := config.colorer.Green(n)
					switch {
					case n >= 500:
						s = config.colorer.Red(n)
					case n >= 400:
						s = config.colorer.Yellow(n)
					case n >= 300:
						s = config.colorer.Cyan(n)
					}
					return buf.WriteString(s)
				case "error":
					if err != nil {
						return writeJSONSafeString(buf, err.Error())
					}
				case "latency":
					l := stop.Sub(start)
					return buf.WriteString(strconv.FormatInt(int64(l), 10))
				case "latency_human":
					return buf.WriteString(stop.Sub(start).String())
				case "bytes_in":
					cl := req.Header.Get(echo.HeaderContentLength)
					if cl == "" {
						cl = "0"
					}
					return writeString(buf, cl)
				case "bytes_out":
					size := int64(0)
					if res != nil {
						size = res.Size
					}
					return buf.WriteString(strconv.FormatInt(size, 10))
				default:
					switch {
					case strings.HasPrefix(tag, "header:"):
						return writeString(buf, c.Request().Header.Get(tag[7:]))
					case strings.HasPrefix(tag, "query:"):
						return writeString(buf, c.QueryParam(tag[6:]))
					case strings.HasPrefix(tag, "form:"):
						return writeString(buf, c.FormValue(tag[5:]))
					case strings.HasPrefix(tag, "cookie:"):
						cookie, err := c.Cookie(tag[7:])
						if err == nil {
							return buf.Write([]byte(cookie.Value))
						}
					}
				}
				return 0, nil
			}); tplErr != nil {
				return err
			}

			if config.Output != nil {
				if _, writeErr := config.Output.Write(buf.Bytes()); writeErr != nil {
					return writeErr
				}
				return err
			}
			c.Logger().Info(strings.TrimSuffix(buf.String(), "\n"))
			return err
		}
	}
}
