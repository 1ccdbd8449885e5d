package web

const pageTpl = `<!doctype html>
<html lang="es">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1, viewport-fit=cover" />
<title>{{.Meta.Title}}</title>
<style>
:root{--primary:{{.Meta.Theme.Primary}};--secondary:{{.Meta.Theme.Secondary}};--bg:{{.Meta.Theme.Background}};--text:{{.Meta.Theme.Text}}}
html,body{margin:0;height:100%;background:var(--bg,#000);color:var(--text,#fff);font-family:system-ui,-apple-system,Segoe UI,Roboto;overflow:hidden}
#entry{position:fixed;inset:0;display:flex;align-items:center;justify-content:center;z-index:10}
#entry .mosaic{position:absolute;inset:0;display:grid;grid-template-columns:repeat(auto-fill,minmax(80px,1fr));opacity:.35}
#entry .mosaic img{width:100%;height:80px;object-fit:cover}
#entry .card{position:relative;text-align:center}
#entry button{font-size:1.2rem;padding:.8rem 2rem;border:0;border-radius:999px;background:var(--primary,#f05);color:#fff;cursor:pointer}
#viewer{position:fixed;inset:0;display:none}
#viewer.on{display:block}
.progress{position:absolute;top:8px;left:8px;right:8px;display:flex;gap:4px;z-index:5}
.progress .seg{flex:1;height:4px;border:0;padding:0;background:rgba(255,255,255,.3);cursor:pointer}
.progress .seg.done,.progress .seg.active{background:var(--primary,#f05)}
.hud{position:absolute;top:20px;left:12px;right:12px;display:flex;justify-content:space-between;font-size:.8rem;z-index:5}
.controls{position:absolute;bottom:16px;left:0;right:0;display:flex;justify-content:center;gap:12px;z-index:5}
.controls button{background:rgba(0,0,0,.4);color:#fff;border:1px solid rgba(255,255,255,.3);border-radius:999px;padding:.5rem 1rem;cursor:pointer}
#stage{position:absolute;inset:0}
#stage .slide{position:absolute;inset:0;display:flex;flex-direction:column;align-items:center;justify-content:center;text-align:center;padding:3rem 1.5rem}
#stage img,#stage video{max-width:100%}
.masonry{position:absolute;inset:0;columns:4;opacity:.3;overflow:hidden}
.masonry .tile img{width:100%;height:100%;object-fit:cover}
.row{display:flex;gap:4px;overflow:hidden}
.row img{height:18vh}
#lightbox{position:fixed;inset:0;display:none;align-items:center;justify-content:center;background:rgba(0,0,0,.92);z-index:20}
#lightbox.on{display:flex}
#lightbox img{max-width:90vw;max-height:85vh;object-fit:contain}
#lightbox button{position:absolute;background:none;border:0;color:#fff;font-size:2rem;cursor:pointer;padding:1rem}
#lightbox [data-lightbox="prev"]{left:0}
#lightbox [data-lightbox="next"]{right:0}
#lightbox [data-lightbox="close"]{top:0;right:0}
</style>

<div id="entry">
  <div class="mosaic">{{range .Mosaic}}<img src="{{.}}" alt="" loading="lazy">{{end}}</div>
  <div class="card">
    <h1>{{.Meta.Title}}</h1>
    {{with .Meta.Occasion}}<p>{{.}}</p>{{end}}
    <button id="start" data-action="start">Comenzar</button>
  </div>
</div>

<div id="viewer" data-total="{{len .Slides}}">
  <div class="progress">{{range $i, $s := .Slides}}<button class="seg" data-index="{{$i}}" data-id="{{$s.ID}}" data-duration="{{$s.Duration}}" aria-label="{{$s.ID}}"></button>{{end}}</div>
  <div class="hud"><span id="chapter"></span><span id="next"></span></div>
  <div id="stage"></div>
  <div class="controls">
    <button data-action="prev">&lsaquo;</button>
    <button data-action="toggle" id="toggle">Pausa</button>
    <button data-action="next">&rsaquo;</button>
  </div>
</div>

<div id="lightbox" role="dialog" aria-modal="true">
  <button data-lightbox="prev" aria-label="Anterior">&lsaquo;</button>
  <img alt="">
  <button data-lightbox="next" aria-label="Siguiente">&rsaquo;</button>
  <button data-lightbox="close" aria-label="Cerrar">&times;</button>
</div>

<script>
(function(){
  var session = null, shown = -1, version = -1;
  var viewer = document.getElementById('viewer');
  var stage = document.getElementById('stage');
  var total = parseInt(viewer.dataset.total, 10);
  var segs = viewer.querySelectorAll('.seg');
  var navKeys = {'ArrowRight':1, 'ArrowLeft':1, ' ':1, 'Space':1, 'Spacebar':1};

  // Lightbox over the interactive gallery. prev/next wrap around the tiles.
  var box = document.getElementById('lightbox');
  var boxImg = box.querySelector('img');
  var boxSrcs = [], boxAt = 0;

  function boxShow(i){
    boxAt = (i + boxSrcs.length) % boxSrcs.length;
    boxImg.src = boxSrcs[boxAt];
  }
  function boxOpen(tile){
    boxSrcs = Array.prototype.map.call(stage.querySelectorAll('.tile[data-index]'), function(t){ return t.dataset.src; });
    if(!boxSrcs.length) return;
    box.classList.add('on');
    boxShow(parseInt(tile.dataset.index, 10));
  }
  function boxClose(){
    box.classList.remove('on');
    boxImg.removeAttribute('src');
  }
  function boxIsOpen(){ return box.classList.contains('on'); }

  box.addEventListener('click', function(e){
    e.stopPropagation();
    var ctl = e.target.closest('[data-lightbox]');
    if(!ctl){ if(e.target === box) boxClose(); return; }
    if(ctl.dataset.lightbox === 'prev') boxShow(boxAt - 1);
    else if(ctl.dataset.lightbox === 'next') boxShow(boxAt + 1);
    else boxClose();
  });

  function post(action, params){
    if(!session) return Promise.resolve();
    var q = params ? '?' + new URLSearchParams(params) : '';
    return fetch('/api/sessions/' + session + '/actions/' + action + q, {method:'POST'})
      .then(function(r){ return r.ok ? r.json() : null; }).then(apply);
  }

  function apply(s){
    if(!s || s.version === version) return;
    version = s.version;
    segs.forEach(function(el, i){
      el.classList.toggle('done', i < s.index);
      el.classList.toggle('active', i === s.index);
    });
    document.getElementById('chapter').textContent = 'Capítulo ' + (s.index + 1) + ' de ' + total;
    var next = s.next_id ? document.querySelector('.seg[data-id="' + s.next_id + '"]') : null;
    document.getElementById('next').textContent = next ? 'Siguiente: ' + s.next_id : '';
    document.getElementById('toggle').textContent = s.is_playing ? 'Pausa' : 'Reproducir';
    if(s.index !== shown){
      shown = s.index;
      boxClose();
      fetch('/slides/' + s.index).then(function(r){ return r.text(); }).then(function(html){ stage.innerHTML = html; });
    }
  }

  document.getElementById('start').addEventListener('click', function(){
    fetch('/api/sessions', {method:'POST'}).then(function(r){ return r.json(); }).then(function(s){
      session = s.id;
      document.getElementById('entry').remove();
      viewer.classList.add('on');
      post('start');
      setInterval(function(){
        fetch('/api/sessions/' + session).then(function(r){ return r.ok ? r.json() : null; }).then(apply);
      }, 400);
    });
  });

  viewer.addEventListener('click', function(e){
    var tile = e.target.closest('.tile[data-index]');
    if(tile){ e.stopPropagation(); boxOpen(tile); return; }
    var seg = e.target.closest('.seg');
    if(seg){ seg.blur(); post('jump', {index: seg.dataset.index}); return; }
    var btn = e.target.closest('[data-action]');
    if(btn){ btn.blur(); post(btn.dataset.action); return; }
    if(e.target.closest('video,a')) return;
    post('tap', {x: e.clientX, width: window.innerWidth});
  });

  document.addEventListener('keydown', function(e){
    if(boxIsOpen()){
      if(e.key === 'Escape') boxClose();
      else if(e.key === 'ArrowLeft') boxShow(boxAt - 1);
      else if(e.key === 'ArrowRight') boxShow(boxAt + 1);
      else return;
      e.preventDefault();
      return;
    }
    if(!navKeys[e.key]) return;
    // Keeps Space from also clicking the focused control.
    e.preventDefault();
    post('key', {key: e.key});
  });

  var touchX = null;
  stage.addEventListener('touchstart', function(e){ touchX = e.touches[0].clientX; }, {passive:true});
  stage.addEventListener('touchend', function(e){
    if(touchX === null) return;
    post('swipe', {dx: e.changedTouches[0].clientX - touchX});
    touchX = null;
  });
})();
</script>
</html>
{{define "nocontent"}}<!doctype html>
<html lang="es">
<meta charset="utf-8" />
<title>Sin contenido</title>
<body style="font-family:system-ui;background:#000;color:#fff;display:flex;align-items:center;justify-content:center;height:100vh;margin:0">
<div class="nocontent">
  <h1>No hay contenido</h1>
  <p>No se pudieron cargar las fotos y los videos.</p>
  <pre>{{.}}</pre>
</div>
</body>
</html>{{end}}`
