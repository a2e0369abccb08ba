package main

import "net/http"

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>code-sync</title>
<meta name="description" content="Realtime collaborative editing coordinator">
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{
font-family:system-ui,-apple-system,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;
background:#1c1e29;
color:#e5e5e5;
min-height:100vh;
display:flex;
align-items:center;
justify-content:center;
padding:24px;
}
.card{
max-width:420px;
background:#282a36;
border:1px solid #373949;
border-radius:8px;
padding:32px;
text-align:center;
}
h1{font-size:18px;font-weight:600;margin-bottom:8px}
h1 span{color:#4aed88}
p{font-size:13px;color:#8c8fa3;line-height:1.6}
code{
display:inline-block;
margin-top:16px;
padding:4px 10px;
background:#1c1e29;
border-radius:4px;
font-size:12px;
color:#4aed88;
}
</style>
</head>
<body>
<div class="card">
<h1>code-<span>sync</span> coordinator</h1>
<p>This server relays edits between participants of a shared room.
Open the editor client and share a room ID to collaborate.</p>
<code>ws://&lt;host&gt;/ws</code>
</div>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexHTML))
}
