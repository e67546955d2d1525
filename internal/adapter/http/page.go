package http

import (
	"html/template"
	"io"
)

// LeafletVersion is the Leaflet release the page loads from the CDN.
const LeafletVersion = "1.9.4"

// Page parameterizes the map page. When Doc is set the map document is
// embedded in the page and DataURL is not fetched, so the page also works
// when opened from disk. FaultsURL may be empty when the document already
// carries settled fault lines.
type Page struct {
	Title     string
	DataURL   string
	FaultsURL string
	Doc       any
}

// RenderPage writes the map page.
func RenderPage(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, struct {
		Page
		LeafletVersion string
	}{p, LeafletVersion})
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@{{.LeafletVersion}}/dist/leaflet.css">
<style>
html, body, #map { height: 100%; margin: 0; padding: 0; }
.legend { background: #fff; padding: 6px 10px; line-height: 20px; border-radius: 4px; }
.legend h4 { margin: 0 0 4px; }
.legend i { float: left; width: 18px; height: 18px; margin-right: 8px; }
</style>
</head>
<body>
<div id="map"></div>
<script src="https://unpkg.com/leaflet@{{.LeafletVersion}}/dist/leaflet.js"></script>
<script>
(function () {
  var dataURL = {{.DataURL}};
  var faultsURL = {{.FaultsURL}};
  var inlineDoc = {{.Doc}};

  function addFaults(group, doc) {
    (doc.layers || []).forEach(function (l) {
      L.geoJSON(l.data, { style: l.style }).addTo(group);
    });
    return (doc.layers || []).length;
  }

  var load = inlineDoc ? Promise.resolve(inlineDoc) :
    fetch(dataURL).then(function (r) { return r.json(); });

  load.then(function (doc) {
    var baseMaps = {};
    doc.baseLayers.forEach(function (b) {
      baseMaps[b.name] = L.tileLayer(b.url, b.options);
    });

    var earthquakes = L.layerGroup();
    doc.earthquakes.markers.forEach(function (m) {
      L.circle(m.latlng, m.options).bindPopup(m.popup).addTo(earthquakes);
    });

    var faultLines = L.layerGroup();
    if (addFaults(faultLines, doc.faultLines) === 0 && faultsURL) {
      fetch(faultsURL).then(function (r) { return r.json(); }).then(function (f) {
        addFaults(faultLines, f);
      });
    }

    var overlayMaps = {};
    overlayMaps[doc.layerControl.overlays[0]] = earthquakes;
    overlayMaps[doc.layerControl.overlays[1]] = faultLines;

    var active = doc.activeLayers.map(function (name) {
      return baseMaps[name] || overlayMaps[name];
    });

    var map = L.map(doc.container, { center: doc.center, zoom: doc.zoom, layers: active });
    L.control.layers(baseMaps, overlayMaps, { collapsed: doc.layerControl.collapsed }).addTo(map);

    var legend = L.control({ position: doc.legend.position });
    legend.onAdd = function () {
      var div = L.DomUtil.create("div", "legend");
      var title = L.DomUtil.create("h4", "", div);
      title.textContent = doc.legend.title;
      doc.legend.entries.forEach(function (e) {
        var row = L.DomUtil.create("div", "", div);
        var swatch = L.DomUtil.create("i", "", row);
        swatch.style.background = e.color;
        row.appendChild(document.createTextNode(e.label));
      });
      return div;
    };
    legend.addTo(map);
  });
})();
</script>
</body>
</html>
`))
