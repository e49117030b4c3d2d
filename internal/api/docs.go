package api

const docsHTML = `<!doctype html>
<html lang="en" data-theme="dark">
<head>
  <meta charset="utf-8" />
  <meta name="referrer" content="same-origin" />
  <meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no" />
  <title>Return Notice API</title>
  <link href="https://unpkg.com/@stoplight/elements@9.0.0/styles.min.css" rel="stylesheet" />
  <script src="https://unpkg.com/@stoplight/elements@9.0.0/web-components.min.js" crossorigin="anonymous"></script>
</head>
<body style="height: 100vh; margin: 0; position: relative;">
  <a href="/docs/events" style="
    position: fixed;
    top: 12px;
    right: 16px;
    z-index: 9999;
    background: #161b22;
    border: 1px solid #30363d;
    border-radius: 6px;
    color: #58a6ff;
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
    font-size: 12px;
    font-weight: 500;
    padding: 5px 12px;
    text-decoration: none;
  ">Event Feed Docs →</a>
  <elements-api
    apiDescriptionUrl="/openapi.json"
    router="hash"
    layout="sidebar"
    tryItCredentialsPolicy="same-origin"
    darkMode
  />
</body>
</html>`

const eventsDocsHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Event Feed | Return Notice</title>
  <style>
    body {
      margin: 0;
      padding: 32px 48px;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", sans-serif;
      font-size: 14px;
      line-height: 1.65;
      background: #0d1117;
      color: #c9d1d9;
    }
    a { color: #58a6ff; text-decoration: none; }
    code, pre { font-family: "SFMono-Regular", Consolas, monospace; font-size: 13px; }
    pre { background: #161b22; border: 1px solid #30363d; border-radius: 6px; padding: 12px 16px; }
    table { border-collapse: collapse; }
    td, th { border: 1px solid #30363d; padding: 6px 12px; text-align: left; }
  </style>
</head>
<body>
  <p><a href="/docs">← API Reference</a></p>
  <h1>Event Feed</h1>
  <p>Every page load served through the notice host publishes outcome events.
  Events never carry transaction identifiers, amounts or payer data.</p>

  <h2>Endpoints</h2>
  <table>
    <tr><th>Path</th><th>Transport</th></tr>
    <tr><td><code>/events</code></td><td>Server-Sent Events, one <code>event:</code> per kind</td></tr>
    <tr><td><code>/ws</code></td><td>WebSocket, one text frame per event</td></tr>
  </table>
  <p>Both accept <code>?kinds=notice.shown,url.sanitized</code> to filter.</p>

  <h2>Kinds</h2>
  <table>
    <tr><th>Kind</th><th>Fields</th></tr>
    <tr><td><code>notice.shown</code></td><td><code>dialog_id</code>, <code>at</code></td></tr>
    <tr><td><code>notice.dismissed</code></td><td><code>dialog_id</code>, <code>trigger</code> (close, backdrop, escape, teardown), <code>at</code></td></tr>
    <tr><td><code>url.sanitized</code></td><td><code>removed</code> (distinct keys stripped), <code>at</code></td></tr>
  </table>

  <h2>Example</h2>
  <pre>const ws = new WebSocket("ws://" + location.host + "/ws?kinds=notice.shown");
ws.onmessage = (m) =&gt; console.log(JSON.parse(m.data));</pre>
</body>
</html>`
